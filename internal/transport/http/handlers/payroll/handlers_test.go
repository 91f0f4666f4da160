package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"payday/internal/domain/employee"
	"payday/internal/domain/payroll"
	"payday/internal/platform/metrics"
)

type stubEmployees struct {
	emp employee.Employee
	err error
}

func (s stubEmployees) Get(context.Context, string) (employee.Employee, error) {
	return s.emp, s.err
}

type stubHours struct {
	recorded map[string]float64
	err      error
}

func (s stubHours) Map(context.Context, string, time.Time, time.Time) (map[string]float64, error) {
	return s.recorded, s.err
}

type stubPayrolls struct {
	savedID  string
	saved    payroll.SavedPayroll
	days     []payroll.SavedDay
	entries  []payroll.HistoryEntry
	saveErr  error
	getErr   error
	lastSave payroll.SavedPayroll
	lastDays []payroll.SavedDay
}

func (s *stubPayrolls) Save(_ context.Context, p payroll.SavedPayroll, days []payroll.SavedDay) (string, error) {
	s.lastSave = p
	s.lastDays = days
	return s.savedID, s.saveErr
}

func (s *stubPayrolls) List(context.Context) ([]payroll.HistoryEntry, error) {
	return s.entries, nil
}

func (s *stubPayrolls) Get(context.Context, string) (payroll.SavedPayroll, []payroll.SavedDay, error) {
	return s.saved, s.days, s.getErr
}

func newTestHandler(employees EmployeeStore, hoursStore HoursStore, payrolls PayrollStore) (*Handler, *chi.Mux) {
	h := NewHandler(employees, hoursStore, payrolls,
		payroll.NewCalculator(8.0), metrics.New(), "EUR", "Test Project")
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return h, router
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type previewEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Rows    []payroll.Row   `json:"rows"`
		Summary payroll.Summary `json:"summary"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) previewEnvelope {
	t.Helper()
	var env previewEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func TestPreviewFixedModeIgnoresDeductions(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Name: "Ann", Rate: 12}},
		stubHours{}, &stubPayrolls{})

	rec := postJSON(t, router, "/payroll/preview", calcPayload{
		EmployeeID:         "e1",
		StartDate:          "2026-01-01",
		EndDate:            "2026-01-01",
		RateMode:           payroll.RateModeFixed,
		HousingDeduction:   50,
		UtilitiesDeduction: 25,
		Hours:              map[string]float64{"2026-01-01": 8},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Data.Summary.TotalDeductions != 0 {
		t.Fatalf("fixed mode must be deduction free, got %v", env.Data.Summary.TotalDeductions)
	}
	if env.Data.Summary.GrossAmount != 64.0 || env.Data.Summary.NetAmount != 64.0 {
		t.Fatalf("unexpected summary: %+v", env.Data.Summary)
	}
	if len(env.Data.Rows) != 1 || env.Data.Rows[0].Weekday != "Thursday" {
		t.Fatalf("unexpected rows: %+v", env.Data.Rows)
	}
}

func TestPreviewCustomModeAppliesDeductions(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Name: "Ann", Rate: 12}},
		stubHours{}, &stubPayrolls{})

	rec := postJSON(t, router, "/payroll/preview", calcPayload{
		EmployeeID:         "e1",
		StartDate:          "2026-01-01",
		EndDate:            "2026-01-01",
		RateMode:           payroll.RateModeCustom,
		HousingDeduction:   20,
		UtilitiesDeduction: 10,
		Hours:              map[string]float64{"2026-01-01": 10},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Data.Summary.GrossAmount != 120.0 {
		t.Fatalf("expected gross 120, got %v", env.Data.Summary.GrossAmount)
	}
	if env.Data.Summary.NetAmount != 90.0 {
		t.Fatalf("expected net 90, got %v", env.Data.Summary.NetAmount)
	}
}

func TestPreviewFillsPeriodFromStoredHours(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Name: "Ann", Rate: 10}},
		stubHours{recorded: map[string]float64{"2026-01-02": 6}},
		&stubPayrolls{})

	rec := postJSON(t, router, "/payroll/preview", calcPayload{
		EmployeeID: "e1",
		StartDate:  "2026-01-01",
		EndDate:    "2026-01-03",
		RateMode:   payroll.RateModeCustom,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if len(env.Data.Rows) != 3 {
		t.Fatalf("expected one row per period day, got %d", len(env.Data.Rows))
	}
	if env.Data.Rows[0].Hours != 0 || env.Data.Rows[1].Hours != 6 || env.Data.Rows[2].Hours != 0 {
		t.Fatalf("unexpected hours per day: %+v", env.Data.Rows)
	}
	if env.Data.Summary.TotalHours != 6 {
		t.Fatalf("expected 6 total hours, got %v", env.Data.Summary.TotalHours)
	}
}

func TestPreviewRejectsReversedRange(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Rate: 10}},
		stubHours{}, &stubPayrolls{})

	rec := postJSON(t, router, "/payroll/preview", calcPayload{
		EmployeeID: "e1",
		StartDate:  "2026-01-31",
		EndDate:    "2026-01-01",
		RateMode:   payroll.RateModeCustom,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %+v", env.Error)
	}
}

func TestPreviewUnknownEmployee(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{err: employee.ErrNotFound},
		stubHours{}, &stubPayrolls{})

	rec := postJSON(t, router, "/payroll/preview", calcPayload{
		EmployeeID: "missing",
		StartDate:  "2026-01-01",
		EndDate:    "2026-01-01",
		RateMode:   payroll.RateModeCustom,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPreviewMisconfiguredRate(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Rate: 0}},
		stubHours{}, &stubPayrolls{})

	rec := postJSON(t, router, "/payroll/preview", calcPayload{
		EmployeeID: "e1",
		StartDate:  "2026-01-01",
		EndDate:    "2026-01-01",
		RateMode:   payroll.RateModeCustom,
		Hours:      map[string]float64{"2026-01-01": 8},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "invalid_rate" {
		t.Fatalf("expected invalid_rate, got %+v", env.Error)
	}
}

func TestSavePersistsSummaryAndDays(t *testing.T) {
	payrolls := &stubPayrolls{savedID: "p1"}
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Name: "Ann", Rate: 12}},
		stubHours{}, payrolls)

	rec := postJSON(t, router, "/payroll/", calcPayload{
		EmployeeID: "e1",
		StartDate:  "2026-01-01",
		EndDate:    "2026-01-02",
		RateMode:   payroll.RateModeFixed,
		Hours:      map[string]float64{"2026-01-01": 8, "2026-01-02": 6},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if payrolls.lastSave.RateMode != payroll.RateModeFixed {
		t.Fatalf("unexpected rate mode: %q", payrolls.lastSave.RateMode)
	}
	if payrolls.lastSave.TotalHours != 14 || payrolls.lastSave.NetAmount != 112.0 {
		t.Fatalf("unexpected saved summary: %+v", payrolls.lastSave)
	}
	if len(payrolls.lastDays) != 2 {
		t.Fatalf("expected 2 day lines, got %d", len(payrolls.lastDays))
	}
}

func TestPayslipStreamsPDF(t *testing.T) {
	payrolls := &stubPayrolls{
		saved: payroll.SavedPayroll{
			ID:           "p1",
			EmployeeName: "Ann Smith",
			RateMode:     payroll.RateModeCustom,
			Rate:         12,
			TotalHours:   10,
			GrossAmount:  120,
			NetAmount:    90,
			PeriodFrom:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			PeriodTo:     time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		},
		days: []payroll.SavedDay{
			{WorkDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), Hours: 10},
		},
	}
	_, router := newTestHandler(
		stubEmployees{emp: employee.Employee{ID: "e1", Rate: 12}},
		stubHours{}, payrolls)

	req := httptest.NewRequest(http.MethodGet, "/payroll/p1/payslip", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("response is not a PDF document")
	}
}

func TestPayslipNotFound(t *testing.T) {
	_, router := newTestHandler(
		stubEmployees{}, stubHours{},
		&stubPayrolls{getErr: payroll.ErrPayrollNotFound})

	req := httptest.NewRequest(http.MethodGet, "/payroll/missing/payslip", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExportWritesCSVRegister(t *testing.T) {
	payrolls := &stubPayrolls{entries: []payroll.HistoryEntry{
		{
			ID:           "p1",
			EmployeeName: "Ann",
			PeriodFrom:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			PeriodTo:     time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
			NetAmount:    90,
			CreatedAt:    time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC),
		},
	}}
	_, router := newTestHandler(stubEmployees{}, stubHours{}, payrolls)

	req := httptest.NewRequest(http.MethodGet, "/payroll/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !bytes.Contains(rec.Body.Bytes(), []byte("Ann")) || !bytes.Contains(rec.Body.Bytes(), []byte("90.00")) {
		t.Fatalf("unexpected export body: %s", body)
	}
}
