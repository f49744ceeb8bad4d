package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
}

type Handlers struct {
	Shift      ShiftHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Journal    JournalHandler
}

func NewRouter(opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.Shift.List)
			r.Post("/", h.Shift.Create)
			r.Get("/coverage", h.Shift.CoverageSummary)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Shift.Get)
				r.Put("/", h.Shift.Update)
				r.Delete("/", h.Shift.Delete)
				r.Post("/assignments", h.Shift.Assign)
				r.Get("/assignments", h.Shift.ListAssignments)
				r.Get("/coverage", h.Shift.Coverage)
			})
		})

		r.Route("/shift-assignments/{id}", func(r chi.Router) {
			r.Patch("/", h.Shift.UpdateAssignmentStatus)
			r.Delete("/", h.Shift.RemoveAssignment)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.Attendance.ListByDateRange)
			r.Post("/check-in", h.Attendance.CheckIn)
			r.Post("/check-out", h.Attendance.CheckOut)
			r.Post("/absent", h.Attendance.MarkAbsent)
			r.Post("/on-leave", h.Attendance.MarkOnLeave)
			r.Patch("/status", h.Attendance.UpdateStatus)

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/", h.Attendance.ListByEmployee)
				r.Get("/stats", h.Attendance.Stats)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.Route("/requests", func(r chi.Router) {
				r.Get("/", h.Leave.ListRequests)
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/{id}", h.Leave.GetRequest)
				r.Post("/{id}/approve", h.Leave.ApproveRequest)
				r.Post("/{id}/reject", h.Leave.RejectRequest)
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/requests", h.Leave.ListEmployeeRequests)
				r.Get("/balance", h.Leave.GetBalance)
				r.Put("/balance", h.Leave.SetAllotment)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/", h.Payroll.Process)
			r.Post("/batch", h.Payroll.ProcessBatch)
			r.Get("/summary", h.Payroll.Summary)
			r.Get("/employees/{employeeID}", h.Payroll.ListByEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Payroll.Get)
				r.Delete("/", h.Payroll.Delete)
				r.Post("/pay", h.Payroll.MarkPaid)
				r.Post("/cancel", h.Payroll.Cancel)
			})
		})

		r.Get("/journal/entries", h.Journal.ListBySource)
	})
	return r
}
