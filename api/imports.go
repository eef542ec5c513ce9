package api

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/riskmap/internal/importer"
	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

const maxImportBody = 32 << 20

type ImportHandler struct {
	rc   *importer.Reconciler
	runs repository.ImportRunRepo
}

func NewImportHandler(rc *importer.Reconciler, runs repository.ImportRunRepo) *ImportHandler {
	return &ImportHandler{rc: rc, runs: runs}
}

func (h *ImportHandler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
	res, err := h.rc.ImportEmployees(r.Context(), r.Body, r.URL.Query().Get("source"))
	h.reply(w, res, err)
}

func (h *ImportHandler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
	res, err := h.rc.ImportEvents(r.Context(), r.Body, r.URL.Query().Get("source"))
	h.reply(w, res, err)
}

func (h *ImportHandler) reply(w http.ResponseWriter, res *importer.Result, err error) {
	if err != nil {
		var se *importer.SchemaError
		if errors.As(err, &se) {
			writeJSON(w, errorResponse{Error: se.Error(), Missing: se.Missing}, http.StatusBadRequest)
			return
		}
		var malformed *csv.ParseError
		if errors.As(err, &malformed) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "import too large", http.StatusRequestEntityTooLarge)
			return
		}
		serverError(w, "failed to import", err)
		return
	}

	writeJSON(w, res, http.StatusOK)
}

// ListImports returns the most recent import runs.
func (h *ImportHandler) ListImports(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.ListImportRuns(r.Context(), intParam(r, "limit", 50, 1, 500))
	if err != nil {
		serverError(w, "failed to list imports", err)
		return
	}
	if runs == nil {
		runs = []models.ImportRun{}
	}

	writeJSON(w, runs, http.StatusOK)
}

// Template serves the example CSV for an import kind.
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	b, err := importer.Template(name)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownTemplate) {
			http.Error(w, "unknown template", http.StatusNotFound)
			return
		}
		serverError(w, "failed to read template", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`_template.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
