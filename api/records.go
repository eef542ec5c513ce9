package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

type RecordsHandler struct {
	store repository.StoreRepo
}

func NewRecordsHandler(store repository.StoreRepo) *RecordsHandler {
	return &RecordsHandler{store: store}
}

type createEmployeeRequest struct {
	Code          string   `json:"employee_code"`
	Department    string   `json:"department"`
	TenureMonths  *int     `json:"tenure_months,omitempty"`
	TrainingScore *float64 `json:"security_training_score,omitempty"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (h *RecordsHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	e := &models.Employee{
		Code:          strings.TrimSpace(req.Code),
		Department:    strings.TrimSpace(req.Department),
		TenureMonths:  models.DefaultTenureMonths,
		TrainingScore: models.DefaultTrainingScore,
	}
	if req.TenureMonths != nil {
		e.TenureMonths = *req.TenureMonths
	}
	if req.TrainingScore != nil {
		e.TrainingScore = *req.TrainingScore
	}
	if e.Code == "" || e.Department == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if e.TenureMonths < 0 {
		http.Error(w, "tenure_months must not be negative", http.StatusBadRequest)
		return
	}

	id, err := h.store.CreateEmployee(r.Context(), e)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			http.Error(w, "employee code already exists", http.StatusConflict)
			return
		}
		serverError(w, "failed to store employee", err)
		return
	}

	writeJSON(w, createdResponse{ID: id}, http.StatusCreated)
}

type createEventRequest struct {
	EmployeeCode        string    `json:"employee_code"`
	Timestamp           time.Time `json:"timestamp"`
	DeviceType          string    `json:"device_type"`
	Location            string    `json:"location"`
	ClickedLink         bool      `json:"clicked_link"`
	ProvidedCredentials bool      `json:"provided_credentials"`
	TimeToClickSeconds  *int      `json:"time_to_click_seconds,omitempty"`
}

// CreateEvent records one simulation outcome. The weekday and hour are
// always derived from timestamp.
func (h *RecordsHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.EmployeeCode = strings.TrimSpace(req.EmployeeCode)
	req.DeviceType = strings.TrimSpace(req.DeviceType)
	req.Location = strings.TrimSpace(req.Location)
	if req.EmployeeCode == "" || req.Timestamp.IsZero() || req.DeviceType == "" || req.Location == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if req.ProvidedCredentials && !req.ClickedLink {
		http.Error(w, "provided_credentials requires clicked_link", http.StatusBadRequest)
		return
	}
	if req.TimeToClickSeconds != nil && *req.TimeToClickSeconds < 0 {
		http.Error(w, "time_to_click_seconds must not be negative", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	empID, ok, err := h.store.FindEmployeeByCode(ctx, req.EmployeeCode)
	if err != nil {
		serverError(w, "failed to resolve employee", err)
		return
	}
	if !ok {
		http.Error(w, "unknown employee", http.StatusUnprocessableEntity)
		return
	}

	ev := &models.SimulationEvent{
		EmployeeID:          empID,
		Timestamp:           req.Timestamp,
		DeviceType:          req.DeviceType,
		Location:            req.Location,
		ClickedLink:         req.ClickedLink,
		ProvidedCredentials: req.ProvidedCredentials,
		TimeToClickSeconds:  req.TimeToClickSeconds,
	}
	id, err := h.store.AppendEvent(ctx, ev)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownEmployee) {
			http.Error(w, "unknown employee", http.StatusUnprocessableEntity)
			return
		}
		serverError(w, "failed to store event", err)
		return
	}

	writeJSON(w, createdResponse{ID: id}, http.StatusCreated)
}

func (h *RecordsHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 50, 1, 500)
	offset := intParam(r, "offset", 0, 0, 1<<31-1)

	emps, err := h.store.ListEmployees(r.Context(), limit, offset)
	if err != nil {
		serverError(w, "failed to list employees", err)
		return
	}

	total, err := h.store.CountEmployees(r.Context())
	if err != nil {
		serverError(w, "failed to count employees", err)
		return
	}

	if emps == nil {
		emps = []models.Employee{}
	}

	resp := map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  emps,
	}

	writeJSON(w, resp, http.StatusOK)
}

// Reset deletes every employee and event. Import history is kept.
func (h *RecordsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		serverError(w, "failed to reset store", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
