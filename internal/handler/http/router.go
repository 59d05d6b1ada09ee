package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/handler/http/middleware"
	"github.com/petropump/attendance-backend/internal/pkg/jwt"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       AuthHandler
	Profile    ProfileHandler
	Attendance AttendanceHandler
	Employee   EmployeeHandler
	Report     ReportHandler
	Events     EventsHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Authenticated by ?token= since EventSource cannot set headers
		r.Get("/events/stream", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/me", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/", h.Profile.Get)
				r.With(middleware.RequirePermission(user.PermissionEditOwnProfile)).Put("/", h.Profile.Update)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceMark))
					r.Post("/geofence", h.Attendance.Geofence)
					r.Post("/mark", h.Attendance.Mark)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/today", h.Attendance.Today)
					r.Get("/monthly", h.Attendance.Monthly)
					r.Get("/yearly", h.Attendance.Yearly)
				})
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/employees", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Group(func(r chi.Router) {
						r.Get("/daily", h.Attendance.DailyView)
						r.Get("/stats", h.Attendance.Stats)
						r.Get("/employees/{id}/monthly", h.Attendance.EmployeeMonthly)
						r.Get("/employees/{id}/yearly", h.Attendance.EmployeeYearly)
					})
					r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Group(func(r chi.Router) {
						r.Post("/leave", h.Attendance.MarkLeave)
						r.Post("/reconcile", h.Attendance.Reconcile)
					})
				})

				r.Route("/reports", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/monthly.xlsx", h.Report.MonthlyWorkbook)
					r.Get("/employees/{id}/monthly.pdf", h.Report.EmployeeMonthlyPDF)
				})

				r.With(middleware.RequirePermission(user.PermissionEventsSubscribe)).Get("/events/token", h.Events.GetStreamToken)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "route not found", http.StatusNotFound)
	})
	return r
}
