package wire

import (
	"context"
	"net/http"
	"strings"
	"time"

	"salon-calendar/internal/adaptor"
	"salon-calendar/internal/data/repository"
	"salon-calendar/internal/usecase"
	"salon-calendar/pkg/middleware"
	"salon-calendar/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ReadyCheck is a named dependency check for /ready.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. ctx scopes background reloads.
func Wiring(ctx context.Context, repo *repository.Repository, config *utils.Config, logger *zap.Logger, checks ...ReadyCheck) *App {
	service := usecase.NewService(ctx, repo, config, logger)
	return &App{
		Router:  NewRouter(service, config, logger, checks...),
		Service: service,
	}
}

// NewRouter mounts every route on a fresh chi router.
func NewRouter(service *usecase.Service, config *utils.Config, logger *zap.Logger, checks ...ReadyCheck) *chi.Mux {
	handler := adaptor.NewHandler(service, logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSPolicy(config.App.CORSOrigins)))

	wireCalendar(r, handler.Calendar)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/ready", readyHandler(checks))

	return r
}

func readyHandler(checks []ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var failures []string
		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				failures = append(failures, check.Name+": "+err.Error())
			}
		}

		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(strings.Join(failures, "; ")))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
