package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/riskmap/internal/config"
	"github.com/garnizeh/riskmap/internal/generator"
)

const maxGenerateBody = 1 << 12

type GenerateHandler struct {
	gen    *generator.Generator
	cfg    config.GeneratorConfig
	schema *jsonschema.Schema
}

// NewGenerateHandler builds the request schema from the configured maxima.
func NewGenerateHandler(gen *generator.Generator, cfg config.GeneratorConfig) (*GenerateHandler, error) {
	doc := fmt.Sprintf(`{
		"type": "object",
		"properties": {
			"employee_count": {"type": "integer", "minimum": 1, "maximum": %d},
			"event_count": {"type": "integer", "minimum": 0, "maximum": %d}
		},
		"additionalProperties": false
	}`, cfg.MaxEmployees, cfg.MaxEvents)

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(doc), rs); err != nil {
		return nil, fmt.Errorf("generate request schema: %w", err)
	}
	return &GenerateHandler{gen: gen, cfg: cfg, schema: rs}, nil
}

type generateRequest struct {
	EmployeeCount *int `json:"employee_count"`
	EventCount    *int `json:"event_count"`
}

// Generate replaces the store contents with a synthetic dataset. An empty
// body uses the configured default counts.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxGenerateBody))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var req generateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	keyErrs, err := h.schema.ValidateBytes(r.Context(), body)
	if err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(keyErrs) > 0 {
		resp := errorResponse{Error: "invalid generate request"}
		for _, ke := range keyErrs {
			resp.Violations = append(resp.Violations, ke.PropertyPath+": "+ke.Message)
		}
		writeJSON(w, resp, http.StatusBadRequest)
		return
	}

	employees, events := h.cfg.DefaultEmployees, h.cfg.DefaultEvents
	if req.EmployeeCount != nil {
		employees = *req.EmployeeCount
	}
	if req.EventCount != nil {
		events = *req.EventCount
	}

	res, err := h.gen.Generate(r.Context(), employees, events)
	if err != nil {
		if errors.Is(err, generator.ErrInvalidCount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		serverError(w, "failed to generate dataset", err)
		return
	}

	writeJSON(w, res, http.StatusCreated)
}
