package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/analytics"
	"github.com/campuscare/student-engagement/internal/identity"
	"github.com/campuscare/student-engagement/internal/scheduling"
	"github.com/campuscare/student-engagement/internal/wellbeing"
)

type RouterConfig struct {
	Availability *scheduling.Availability
	Booking      *scheduling.Booking
	Reports      *wellbeing.Service
	Accounts     *identity.Service
	Analytics    *analytics.Service
	Logger       *zap.Logger
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health and metrics
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Availability
	r.Post("/supervisors/{id}/slots", addSlotHandler(cfg.Availability))
	r.Get("/supervisors/{id}/slots", listAllSlotsHandler(cfg.Availability))
	r.Get("/supervisors/{id}/slots/free", listFreeSlotsHandler(cfg.Availability))

	// Booking
	r.Post("/meetings", bookMeetingHandler(cfg.Booking))
	r.Post("/meetings/{id}/cancel", cancelMeetingHandler(cfg.Booking))
	r.Get("/users/{id}/meetings", listUserMeetingsHandler(cfg.Booking))

	// Well-being reports
	r.Get("/students/{id}/reports/eligibility", reportEligibilityHandler(cfg.Reports))
	r.Post("/students/{id}/reports", submitReportHandler(cfg.Reports))
	r.Get("/students/{id}/reports", reportHistoryHandler(cfg.Reports))
	r.Get("/supervisors/{id}/reports", supervisorReportsHandler(cfg.Reports))
	r.Get("/supervisors/{id}/attention", needingAttentionHandler(cfg.Reports))

	// Accounts
	r.Post("/register/students", registerStudentHandler(cfg.Accounts))
	r.Post("/register/supervisors", registerStaffHandler(func(req *http.Request, body RegisterStaffRequest) (*identity.User, error) {
		return cfg.Accounts.RegisterSupervisor(req.Context(), body.Name, body.Email, body.StaffRef, body.Password)
	}))
	r.Post("/register/tutors", registerStaffHandler(func(req *http.Request, body RegisterStaffRequest) (*identity.User, error) {
		return cfg.Accounts.RegisterSeniorTutor(req.Context(), body.Name, body.Email, body.StaffRef, body.Password)
	}))
	r.Post("/auth/login", loginHandler(cfg.Accounts))
	r.Get("/supervisors", listSupervisorsHandler(cfg.Accounts))

	// Analytics
	r.Get("/analytics/cohort", cohortAnalyticsHandler(cfg.Analytics))
	r.Get("/analytics/supervisors", supervisorEngagementHandler(cfg.Analytics))

	return r
}
