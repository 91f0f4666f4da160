package hourshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payday/internal/domain/employee"
	"payday/internal/domain/hours"
	"payday/internal/domain/payroll"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type EmployeeStore interface {
	Get(ctx context.Context, id string) (employee.Employee, error)
}

type HoursStore interface {
	Upsert(ctx context.Context, employeeID string, entries []hours.Entry) error
	Map(ctx context.Context, employeeID string, from, to time.Time) (map[string]float64, error)
}

type Handler struct {
	Employees EmployeeStore
	Hours     HoursStore
}

func NewHandler(employees EmployeeStore, hoursStore HoursStore) *Handler {
	return &Handler{Employees: employees, Hours: hoursStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees/{employeeID}/hours", func(r chi.Router) {
		r.Get("/", h.handleGetPeriod)
		r.Put("/", h.handleUpsert)
	})
}

// handleGetPeriod returns every day of the requested range with its weekday
// name and the recorded hours, zero for days without an entry.
func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	start, startOK := v.Date("start", r.URL.Query().Get("start"))
	end, endOK := v.Date("end", r.URL.Query().Get("end"))
	if startOK && endOK {
		v.DateOrder("start", start, "end", end)
	}
	if v.Reject(w, reqID) {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if _, err := h.Employees.Get(r.Context(), employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "hours_failed", "failed to load employee", reqID)
		return
	}

	period, err := payroll.GeneratePeriod(start, end)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_range", err.Error(), reqID)
		return
	}

	recorded, err := h.Hours.Map(r.Context(), employeeID, start, end)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hours_failed", "failed to load recorded hours", reqID)
		return
	}

	merged, err := payroll.MergeHours(period, recorded)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_hours", err.Error(), reqID)
		return
	}
	api.Success(w, merged, reqID)
}

type upsertPayload struct {
	Entries []hours.Entry `json:"entries"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", reqID)
		return
	}
	if len(payload.Entries) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "entries must not be empty", reqID)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if _, err := h.Employees.Get(r.Context(), employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "hours_failed", "failed to load employee", reqID)
		return
	}

	if err := h.Hours.Upsert(r.Context(), employeeID, payload.Entries); err != nil {
		if errors.Is(err, hours.ErrNegativeHours) {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_hours", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), reqID)
		return
	}
	api.Success(w, map[string]int{"saved": len(payload.Entries)}, reqID)
}
