package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/petropump/attendance-backend/internal/config"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/domain/user"
	appHTTP "github.com/petropump/attendance-backend/internal/handler/http"
	"github.com/petropump/attendance-backend/internal/pkg/cron"
	"github.com/petropump/attendance-backend/internal/pkg/database"
	"github.com/petropump/attendance-backend/internal/pkg/firebaseapp"
	"github.com/petropump/attendance-backend/internal/pkg/geo"
	"github.com/petropump/attendance-backend/internal/pkg/identity"
	"github.com/petropump/attendance-backend/internal/pkg/jwt"
	"github.com/petropump/attendance-backend/internal/pkg/sse"
	"github.com/petropump/attendance-backend/internal/repository/firestoredb"
	"github.com/petropump/attendance-backend/internal/repository/memory"
	"github.com/petropump/attendance-backend/internal/repository/postgresql"
	attendanceService "github.com/petropump/attendance-backend/internal/service/attendance"
	serviceAuth "github.com/petropump/attendance-backend/internal/service/auth"
	reportService "github.com/petropump/attendance-backend/internal/service/report"
	userService "github.com/petropump/attendance-backend/internal/service/user"
)

// stores is what a STORE_DRIVER provides.
type stores struct {
	users       user.UserRepository
	attendance  attendance.AttendanceRepository
	credentials auth.CredentialRepository // nil when identity lives in Firebase
	firebase    *firebaseapp.App
	close       func()
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "pump-attendance"),
		slog.String("env", cfg.App.Env),
	)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreFirestore:
		app, err := firebaseapp.New(ctx, cfg.Firebase, cfg.Identity.Provider == config.IdentityFirebase)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:      firestoredb.NewUserRepository(app.Firestore),
			attendance: firestoredb.NewAttendanceRepository(app.Firestore),
			firebase:   app,
			close:      func() { _ = app.Close() },
		}, nil

	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		s := &stores{
			users:       postgresql.NewUserRepository(db),
			attendance:  postgresql.NewAttendanceRepository(db),
			credentials: postgresql.NewCredentialRepository(db),
			close:       db.Close,
		}
		if cfg.Identity.Provider == config.IdentityFirebase {
			app, err := firebaseapp.New(ctx, cfg.Firebase, true)
			if err != nil {
				db.Close()
				return nil, err
			}
			s.firebase = app
			s.close = func() {
				_ = app.Close()
				db.Close()
			}
		}
		return s, nil

	case config.StoreMemory:
		store := memory.NewStore()
		slog.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users:       memory.NewUserRepository(store),
			attendance:  memory.NewAttendanceRepository(store),
			credentials: memory.NewCredentialRepository(store),
			close:       func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
}

func newIdentityProvider(cfg *config.Config, s *stores) (auth.IdentityProvider, error) {
	switch cfg.Identity.Provider {
	case config.IdentityFirebase:
		if s.firebase == nil || s.firebase.Auth == nil {
			return nil, errors.New("firebase identity requires a firebase app with auth")
		}
		return identity.NewFirebaseProvider(s.firebase.Auth, cfg.Firebase.WebAPIKey), nil
	case config.IdentityLocal:
		if s.credentials == nil {
			return nil, fmt.Errorf("local identity is not available with STORE_DRIVER %q", cfg.Store.Driver)
		}
		return identity.NewLocalProvider(s.credentials), nil
	}
	return nil, fmt.Errorf("unsupported IDENTITY_PROVIDER %q", cfg.Identity.Provider)
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	provider, err := newIdentityProvider(cfg, s)
	if err != nil {
		return err
	}

	loc := cfg.Location()
	fence := geo.Fence{
		Latitude:     cfg.Geofence.Latitude,
		Longitude:    cfg.Geofence.Longitude,
		RadiusMeters: cfg.Geofence.RadiusMeters,
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	hub := sse.NewHub()

	userSvc := userService.NewUserService(s.users, provider)
	attendanceSvc := attendanceService.NewAttendanceService(s.attendance, s.users, userSvc, hub, fence, loc)
	reportSvc := reportService.NewReportService(attendanceSvc, loc, cfg.Reports.FontPath)
	authSvc := serviceAuth.NewAuthService(provider, userSvc, JWTService, cfg.App.AllowSignup)

	if cfg.Admin.Email != "" {
		admin, err := userSvc.EnsureAdmin(ctx, user.CreateEmployeeRequest{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		slog.Info("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	var scheduler *cron.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceSvc, loc).RegisterJobs(scheduler, cfg.Jobs.ReconcileInterval)
		scheduler.Start()
	}

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		Profile:    appHTTP.NewProfileHandler(userSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		Employee:   appHTTP.NewEmployeeHandler(userSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Events:     appHTTP.NewEventsHandler(hub, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running",
			"addr", server.Addr,
			"store", cfg.Store.Driver,
			"identity", cfg.Identity.Provider,
			"timezone", loc.String(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	return nil
}
