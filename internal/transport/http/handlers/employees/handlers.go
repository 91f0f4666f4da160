package employeehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"payday/internal/domain/employee"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

// Store is the employee persistence surface the handler needs.
type Store interface {
	List(ctx context.Context) ([]employee.Employee, error)
	Get(ctx context.Context, id string) (employee.Employee, error)
	Create(ctx context.Context, e employee.Employee) (string, error)
	Update(ctx context.Context, e employee.Employee) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.Delete("/{employeeID}", h.handleDelete)
	})
}

type employeePayload struct {
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`
	BankName string  `json:"bankName"`
	IBAN     string  `json:"iban"`
	BIC      string  `json:"bic"`
}

func (p employeePayload) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("name", p.Name, "name is required")
	v.Positive("rate", p.Rate)
	return v
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employees, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", reqID)
		return
	}
	if employees == nil {
		employees = []employee.Employee{}
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	found, err := h.Store.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, found, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", reqID)
		return
	}
	if payload.validate().Reject(w, reqID) {
		return
	}

	id, err := h.Store.Create(r.Context(), employee.Employee{
		Name:     strings.TrimSpace(payload.Name),
		Rate:     payload.Rate,
		BankName: strings.TrimSpace(payload.BankName),
		IBAN:     strings.TrimSpace(payload.IBAN),
		BIC:      strings.TrimSpace(payload.BIC),
	})
	if errors.Is(err, employee.ErrDuplicateName) {
		api.Fail(w, http.StatusConflict, "duplicate_name", "an employee with this name already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to create employee", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", reqID)
		return
	}
	if payload.validate().Reject(w, reqID) {
		return
	}

	err := h.Store.Update(r.Context(), employee.Employee{
		ID:       chi.URLParam(r, "employeeID"),
		Name:     strings.TrimSpace(payload.Name),
		Rate:     payload.Rate,
		BankName: strings.TrimSpace(payload.BankName),
		IBAN:     strings.TrimSpace(payload.IBAN),
		BIC:      strings.TrimSpace(payload.BIC),
	})
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if errors.Is(err, employee.ErrDuplicateName) {
		api.Fail(w, http.StatusConflict, "duplicate_name", "an employee with this name already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to update employee", reqID)
		return
	}
	api.Success(w, map[string]bool{"updated": true}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Store.Delete(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to delete employee", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}
