/*
handlers.go - HTTP API handlers for the compensation and eligibility engine

PURPOSE:
  Exposes the decision engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the service layer.

ENDPOINTS:
  Employees:
    GET    /api/employees                      List all employees
    POST   /api/employees                      Create or update employee
    GET    /api/employees/{id}                 Get employee details

  Loans:
    GET    /api/employees/{id}/eligibility     Preview (?amount=&loan_type=)
    POST   /api/employees/{id}/loans           Evaluate + persist a loan request
    GET    /api/employees/{id}/loans           Persisted evaluations
    GET    /api/loan-types                     Loan categories

  Contributions:
    GET    /api/employees/{id}/contributions   EPF/ETF summary (?current_age=&retirement_age=)
    POST   /api/employees/{id}/contributions   Record a payroll month

  Compensation:
    POST   /api/compensation/bonus             Bonus amount
    POST   /api/compensation/overtime          Overtime payment
    POST   /api/compensation/increment         Review progress (+ projection)

  Policy:
    GET    /api/policy                         Active decision policy

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Service: Engine operations (eligibility, compensation, contributions)
  - Store: Employee records and loan types

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee or loan type not found
  - 409: Contribution month already recorded
  - 500: Internal errors

  A Low eligibility tier is a 200 like any other result.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/compensation"
	"github.com/warp/compensation-engine/factory"
	"github.com/warp/compensation-engine/generic"
	"github.com/warp/compensation-engine/service"
	"github.com/warp/compensation-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *service.Service
	Store   *sqlite.Store

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, store *sqlite.Store) *Handler {
	return &Handler{
		Service: svc,
		Store:   store,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	today := h.Service.Today()
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e, today)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp, h.Service.Today()))
}

// SaveEmployee creates or updates an employee. Financial fields may be omitted.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := req.toEmployee()
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	h.Service.EmployeeChanged(r.Context(), generic.EmployeeID(emp.ID))

	saved, err := h.Store.GetEmployee(r.Context(), emp.ID)
	if err != nil {
		writeServiceError(w, "Failed to reload employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved, h.Service.Today()))
}

// =============================================================================
// LOAN HANDLERS
// =============================================================================

// GetEligibility previews eligibility without persisting anything.
// GET /api/employees/{id}/eligibility?amount=30000&loan_type=personal
func (h *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	id := generic.EmployeeID(chi.URLParam(r, "id"))
	q := r.URL.Query()

	amount := decimal.Zero
	if raw := q.Get("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid amount", err)
			return
		}
		amount = parsed
	}

	result, err := h.Service.PreviewEligibility(r.Context(), id, amount, generic.LoanType(q.Get("loan_type")))
	if err != nil {
		writeServiceError(w, "Failed to evaluate eligibility", err)
		return
	}
	writeJSON(w, http.StatusOK, toEligibilityDTO(result))
}

// SubmitLoan evaluates a loan request and stores the evaluation.
func (h *Handler) SubmitLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	loanType := generic.LoanType(req.LoanType)
	if loanType == "" {
		loanType = service.DefaultLoanType
	}

	record, err := h.Service.EvaluateLoan(r.Context(), service.LoanRequest{
		EmployeeID: generic.EmployeeID(chi.URLParam(r, "id")),
		LoanType:   loanType,
		Amount:     req.Amount,
	})
	if err != nil {
		writeServiceError(w, "Failed to evaluate loan", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLoanEvaluationDTO(record))
}

// ListLoans returns the employee's evaluations, newest first.
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListEvaluations(r.Context(), generic.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, "Failed to list loan evaluations", err)
		return
	}

	dtos := make([]LoanEvaluationDTO, len(records))
	for i, rec := range records {
		dtos[i] = toLoanEvaluationDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListLoanTypes returns all loan categories.
func (h *Handler) ListLoanTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListLoanTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list loan types", err)
		return
	}

	dtos := make([]LoanTypeDTO, len(types))
	for i, lt := range types {
		dtos[i] = LoanTypeDTO{ID: string(lt.ID), Name: lt.Name, Description: lt.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CONTRIBUTION HANDLERS
// =============================================================================

// GetContributions returns the EPF/ETF summary and retirement projection.
// GET /api/employees/{id}/contributions?current_age=35&retirement_age=55
func (h *Handler) GetContributions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.SummaryRequest{EmployeeID: generic.EmployeeID(chi.URLParam(r, "id"))}

	if raw := q.Get("current_age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid current_age", err)
			return
		}
		req.CurrentAge = &age
	}
	if raw := q.Get("retirement_age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid retirement_age", err)
			return
		}
		req.RetirementAge = age
	}

	summary, err := h.Service.ContributionSummary(r.Context(), req)
	if err != nil {
		writeServiceError(w, "Failed to summarize contributions", err)
		return
	}
	writeJSON(w, http.StatusOK, toContributionSummaryDTO(summary))
}

// RecordContribution appends one payroll month derived from the current salary.
// The body is optional; without it the current month is recorded.
func (h *Handler) RecordContribution(w http.ResponseWriter, r *http.Request) {
	var req RecordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var period generic.TimePoint
	if req.Period != nil {
		period = *req.Period
	}

	entry, err := h.Service.RecordContribution(r.Context(), generic.EmployeeID(chi.URLParam(r, "id")), period)
	if err != nil {
		writeServiceError(w, "Failed to record contribution", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContributionEntryDTO(entry))
}

// =============================================================================
// COMPENSATION HANDLERS
// =============================================================================

// ComputeBonus prices a bonus.
func (h *Handler) ComputeBonus(w http.ResponseWriter, r *http.Request) {
	var req BonusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.Bonus(r.Context(), service.BonusRequest{
		EmployeeID: generic.EmployeeID(req.EmployeeID),
		BaseSalary: req.BaseSalary,
		Tier:       compensation.PerformanceTier(req.PerformanceTier),
		Type:       compensation.BonusType(strings.ToLower(strings.TrimSpace(req.BonusType))),
	})
	if err != nil {
		writeServiceError(w, "Failed to compute bonus", err)
		return
	}
	writeJSON(w, http.StatusOK, BonusDTO{
		BaseSalary:      result.BaseSalary,
		PerformanceTier: string(result.Tier),
		BonusType:       string(result.Type),
		Amount:          result.Amount,
	})
}

// ComputeOvertime prices an overtime claim. Non-positive hours or rate is a 400.
func (h *Handler) ComputeOvertime(w http.ResponseWriter, r *http.Request) {
	var req OvertimeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.Overtime(r.Context(), service.OvertimeRequest{
		EmployeeID: generic.EmployeeID(req.EmployeeID),
		Hours:      req.Hours,
		HourlyRate: req.HourlyRate,
		Category:   req.Category,
	})
	if err != nil {
		writeServiceError(w, "Failed to compute overtime", err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeDTO(result))
}

// ComputeIncrement reports review progress. With employee_id, the stored
// increment dates and salary fill whatever the request leaves out.
func (h *Handler) ComputeIncrement(w http.ResponseWriter, r *http.Request) {
	var req IncrementRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := service.IncrementRequest{IncrementPercent: req.IncrementPercent}
	if req.EmployeeID != "" {
		emp, err := h.Store.GetEmployee(r.Context(), req.EmployeeID)
		if err != nil {
			writeServiceError(w, "Failed to load employee", err)
			return
		}
		if emp.LastIncrementDate != nil {
			in.LastIncrementDate = *emp.LastIncrementDate
		} else if emp.HireDate != nil {
			in.LastIncrementDate = *emp.HireDate
		}
		if emp.NextReviewDate != nil {
			in.NextReviewDate = *emp.NextReviewDate
		}
		if emp.AnnualSalary != nil {
			in.CurrentSalary = *emp.AnnualSalary
		}
	}
	if req.LastIncrementDate != nil {
		in.LastIncrementDate = *req.LastIncrementDate
	}
	if req.NextReviewDate != nil {
		in.NextReviewDate = *req.NextReviewDate
	}
	if req.CurrentSalary != nil {
		in.CurrentSalary = *req.CurrentSalary
	}

	result, err := h.Service.Increment(in)
	if err != nil {
		writeServiceError(w, "Failed to compute increment progress", err)
		return
	}
	writeJSON(w, http.StatusOK, toIncrementDTO(result))
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// GetPolicy returns the active decision policy in its file format.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.ToJSON(h.Service.Policy()))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps engine errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, generic.ErrDuplicateContribution):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
