/*
server.go - Route table for the payroll decision API

PURPOSE:
  Maps every URL the service exposes onto a Handler method and installs the
  chi middleware chain in front of them.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Employee records, eligibility, loans, contributions
  /api/compensation/*   Bonus, overtime, increment calculators
  /api/loan-types       Loan categories
  /api/policy           Active decision policy
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  Authentication and authorization are handled outside this service.

SEE ALSO:
  - handlers.go: Request decoding and error mapping
  - scheduler.go: Background payroll posting started next to the router
  - cmd/server/main.go: Process startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the chi router serving the API and the index page.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/eligibility", h.GetEligibility)
			r.Get("/{id}/loans", h.ListLoans)
			r.Post("/{id}/loans", h.SubmitLoan)
			r.Get("/{id}/contributions", h.GetContributions)
			r.Post("/{id}/contributions", h.RecordContribution)
		})

		// Calculator routes
		r.Route("/compensation", func(r chi.Router) {
			r.Post("/bonus", h.ComputeBonus)
			r.Post("/overtime", h.ComputeOvertime)
			r.Post("/increment", h.ComputeIncrement)
		})

		r.Get("/loan-types", h.ListLoanTypes)
		r.Get("/policy", h.GetPolicy)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Compensation Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Compensation &amp; Eligibility Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/loan-types">/api/loan-types</a> - List loan types</li>
<li><a href="/api/policy">/api/policy</a> - Active decision policy</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
