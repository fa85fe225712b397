package http

import (
	"log/slog"
	"os"

	"github.com/gajihub/payroll-engine-go/internal/handler/http/middleware"
	"github.com/gajihub/payroll-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	payrollHandler PayrollHandler,
	adjustmentHandler AdjustmentHandler,
	taxHandler TaxHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/settings", func(r chi.Router) {
					r.Get("/", payrollHandler.GetSettings)
					r.Put("/", payrollHandler.UpdateSettings)
				})

				r.Route("/allowances", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateAllowance)
					r.Delete("/{id}", payrollHandler.DeleteAllowance)
				})

				r.Post("/calculate", payrollHandler.Calculate)
				r.Post("/generate", payrollHandler.Generate)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPayrollRecords)
					r.Get("/{id}", payrollHandler.GetPayrollRecord)
					r.Post("/{id}/recalculate", payrollHandler.Recalculate)
					r.Post("/{id}/transition", payrollHandler.Transition)
				})
			})

			r.Route("/employees/{employeeId}", func(r chi.Router) {
				r.Get("/allowances", payrollHandler.GetEmployeeAllowances)
				r.Get("/adjustments", adjustmentHandler.ListByEmployee)
			})

			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", adjustmentHandler.Create)
				r.Get("/{id}", adjustmentHandler.GetByID)
				r.Post("/{id}/approve", adjustmentHandler.Approve)
				r.Post("/{id}/reject", adjustmentHandler.Reject)
			})

			r.Route("/tax", func(r chi.Router) {
				r.Get("/ptkp", taxHandler.ListPTKP)
				r.Get("/brackets", taxHandler.ListBrackets)
				r.Get("/ter-bands", taxHandler.ListTERBands)
			})
		})
	})
	return r
}
