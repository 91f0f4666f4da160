package payrollhandler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"payday/internal/domain/employee"
	"payday/internal/domain/payroll"
	"payday/internal/platform/metrics"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
	"payday/internal/transport/http/shared"
)

type EmployeeStore interface {
	Get(ctx context.Context, id string) (employee.Employee, error)
}

type HoursStore interface {
	Map(ctx context.Context, employeeID string, from, to time.Time) (map[string]float64, error)
}

type PayrollStore interface {
	Save(ctx context.Context, p payroll.SavedPayroll, days []payroll.SavedDay) (string, error)
	List(ctx context.Context) ([]payroll.HistoryEntry, error)
	Get(ctx context.Context, id string) (payroll.SavedPayroll, []payroll.SavedDay, error)
}

type Handler struct {
	Employees EmployeeStore
	Hours     HoursStore
	Payrolls  PayrollStore
	Calc      *payroll.Calculator
	Metrics   *metrics.Collector
	Currency  string
	Project   string
}

func NewHandler(employees EmployeeStore, hoursStore HoursStore, payrolls PayrollStore,
	calc *payroll.Calculator, collector *metrics.Collector, currency, project string) *Handler {
	return &Handler{
		Employees: employees,
		Hours:     hoursStore,
		Payrolls:  payrolls,
		Calc:      calc,
		Metrics:   collector,
		Currency:  currency,
		Project:   project,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/preview", h.handlePreview)
		r.Post("/", h.handleSave)
		r.Get("/", h.handleHistory)
		r.Get("/export", h.handleExportCSV)
		r.Get("/{payrollID}", h.handleGet)
		r.Get("/{payrollID}/payslip", h.handlePayslip)
	})
}

type calcPayload struct {
	EmployeeID         string             `json:"employeeId"`
	StartDate          string             `json:"startDate"`
	EndDate            string             `json:"endDate"`
	RateMode           string             `json:"rateMode"`
	HousingDeduction   float64            `json:"housingDeduction"`
	UtilitiesDeduction float64            `json:"utilitiesDeduction"`
	Hours              map[string]float64 `json:"hours,omitempty"`
}

type calcResult struct {
	Rows    []payroll.Row   `json:"rows"`
	Summary payroll.Summary `json:"summary"`
}

func (p calcPayload) validate() (*shared.Validator, time.Time, time.Time) {
	v := shared.NewValidator()
	v.Required("employeeId", p.EmployeeID, "employeeId is required")
	v.Enum("rateMode", p.RateMode, []string{payroll.RateModeFixed, payroll.RateModeCustom},
		"must be fixed or custom")
	v.Required("rateMode", p.RateMode, "rateMode is required")
	v.NonNegative("housingDeduction", p.HousingDeduction)
	v.NonNegative("utilitiesDeduction", p.UtilitiesDeduction)
	start, startOK := v.Date("startDate", p.StartDate)
	end, endOK := v.Date("endDate", p.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	return v, start, end
}

// compute resolves the hours map and runs the calculator for the requested
// mode. In fixed mode the deduction fields of the payload are ignored
// outright; fixed-rate payroll is always deduction-free.
func (h *Handler) compute(ctx context.Context, payload calcPayload, start, end time.Time) (employee.Employee, []payroll.Row, payroll.Summary, error) {
	emp, err := h.Employees.Get(ctx, payload.EmployeeID)
	if err != nil {
		return employee.Employee{}, nil, payroll.Summary{}, err
	}

	// An inline hours map wins; otherwise the stored hours are spread over
	// the full period so every day gets a row, zero when unrecorded.
	hoursMap := payload.Hours
	if hoursMap == nil {
		recorded, err := h.Hours.Map(ctx, emp.ID, start, end)
		if err != nil {
			return employee.Employee{}, nil, payroll.Summary{}, err
		}
		period, err := payroll.GeneratePeriod(start, end)
		if err != nil {
			return employee.Employee{}, nil, payroll.Summary{}, err
		}
		merged, err := payroll.MergeHours(period, recorded)
		if err != nil {
			return employee.Employee{}, nil, payroll.Summary{}, err
		}
		hoursMap = make(map[string]float64, len(merged))
		for _, day := range merged {
			hoursMap[day.ISO] = day.Hours
		}
	}

	var rows []payroll.Row
	var summary payroll.Summary
	if strings.EqualFold(payload.RateMode, payroll.RateModeFixed) {
		rows, summary, err = h.Calc.Fixed(hoursMap)
	} else {
		rows, summary, err = h.Calc.Custom(emp.Rate, hoursMap, payroll.Deductions{
			Housing:   payload.HousingDeduction,
			Utilities: payload.UtilitiesDeduction,
		})
	}
	if err != nil {
		return employee.Employee{}, nil, payroll.Summary{}, err
	}
	if rows == nil {
		rows = []payroll.Row{}
	}
	return emp, rows, summary, nil
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload calcPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", reqID)
		return
	}
	v, start, end := payload.validate()
	if v.Reject(w, reqID) {
		return
	}

	_, rows, summary, err := h.compute(r.Context(), payload, start, end)
	if err != nil {
		h.failCompute(w, err, reqID)
		return
	}

	h.Metrics.PayrollComputed()
	api.Success(w, calcResult{Rows: rows, Summary: summary}, reqID)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload calcPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", reqID)
		return
	}
	v, start, end := payload.validate()
	if v.Reject(w, reqID) {
		return
	}

	emp, rows, summary, err := h.compute(r.Context(), payload, start, end)
	if err != nil {
		h.failCompute(w, err, reqID)
		return
	}

	days := make([]payroll.SavedDay, 0, len(rows))
	for _, row := range rows {
		workDate, err := time.Parse("2006-01-02", row.DateISO)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to persist payroll", reqID)
			return
		}
		days = append(days, payroll.SavedDay{WorkDate: workDate, Hours: row.Hours})
	}

	id, err := h.Payrolls.Save(r.Context(), payroll.SavedPayroll{
		EmployeeID:         emp.ID,
		PeriodFrom:         start,
		PeriodTo:           end,
		RateMode:           strings.ToLower(payload.RateMode),
		Rate:               summary.Rate,
		HousingDeduction:   summary.HousingDeduction,
		UtilitiesDeduction: summary.UtilitiesDeduction,
		TotalHours:         summary.TotalHours,
		GrossAmount:        summary.GrossAmount,
		NetAmount:          summary.NetAmount,
	}, days)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to persist payroll", reqID)
		return
	}

	h.Metrics.PayrollComputed()
	api.Created(w, map[string]any{"id": id, "summary": summary}, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	entries, err := h.Payrolls.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to list payrolls", reqID)
		return
	}
	if entries == nil {
		entries = []payroll.HistoryEntry{}
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	saved, days, err := h.Payrolls.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if errors.Is(err, payroll.ErrPayrollNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_not_found", "payroll not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to load payroll", reqID)
		return
	}
	if days == nil {
		days = []payroll.SavedDay{}
	}
	api.Success(w, map[string]any{"payroll": saved, "days": days}, reqID)
}

// handlePayslip re-derives the row list from the saved day lines and streams
// the rendered PDF.
func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	saved, days, err := h.Payrolls.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if errors.Is(err, payroll.ErrPayrollNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_not_found", "payroll not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to load payroll", reqID)
		return
	}

	hoursMap := make(map[string]float64, len(days))
	for _, day := range days {
		hoursMap[day.WorkDate.Format("2006-01-02")] = day.Hours
	}
	rows, err := payroll.BuildRows(hoursMap, saved.Rate)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to rebuild payroll rows", reqID)
		return
	}

	var buf bytes.Buffer
	err = payroll.RenderPayslip(&buf, payroll.PayslipData{
		EmployeeName: saved.EmployeeName,
		BankName:     saved.BankName,
		IBAN:         saved.IBAN,
		BIC:          saved.BIC,
		Project:      h.Project,
		Currency:     h.Currency,
		PeriodFrom:   saved.PeriodFrom.Format("02.01.2006"),
		PeriodTo:     saved.PeriodTo.Format("02.01.2006"),
		Rows:         rows,
		Summary: payroll.Summary{
			TotalHours:         saved.TotalHours,
			Rate:               saved.Rate,
			GrossAmount:        saved.GrossAmount,
			HousingDeduction:   saved.HousingDeduction,
			UtilitiesDeduction: saved.UtilitiesDeduction,
			TotalDeductions:    saved.HousingDeduction + saved.UtilitiesDeduction,
			NetAmount:          saved.NetAmount,
		},
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", reqID)
		return
	}

	h.Metrics.PayslipRendered()
	filename := fmt.Sprintf("Payroll_%s.pdf", strings.ReplaceAll(saved.EmployeeName, " ", "_"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	entries, err := h.Payrolls.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to list payrolls", reqID)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"id", "employee", "period_from", "period_to", "net_amount", "created_at"})
	for _, entry := range entries {
		_ = writer.Write([]string{
			entry.ID,
			entry.EmployeeName,
			entry.PeriodFrom.Format("2006-01-02"),
			entry.PeriodTo.Format("2006-01-02"),
			fmt.Sprintf("%.2f", entry.NetAmount),
			entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to write export", reqID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll_register.csv"`)
	_, _ = w.Write(buf.Bytes())
}

// failCompute maps engine and store errors onto the response contract. Any
// error blocks the calculation; no partial summary is ever returned.
func (h *Handler) failCompute(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
	case errors.Is(err, payroll.ErrInvalidRange):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_range", err.Error(), reqID)
	case errors.Is(err, payroll.ErrInvalidRate):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_rate", err.Error(), reqID)
	case errors.Is(err, payroll.ErrInvalidDeduction):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_deduction", err.Error(), reqID)
	case errors.Is(err, payroll.ErrInvalidHours):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_hours", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll calculation failed", reqID)
	}
}
