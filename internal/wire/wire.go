// internal/wire/wire.go
package wire

import (
	"cleaning-service/internal/adaptor"
	"cleaning-service/internal/data/repository"
	"cleaning-service/internal/usecase"
	"cleaning-service/pkg/middleware"
	"cleaning-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router.
func Wiring(repo *repository.Repository, db adaptor.Pinger, invoices usecase.InvoiceSignaler, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, invoices, logger)
	handler := adaptor.NewHandler(service, db, logger)

	return &App{
		Router:  setupRouter(handler, config, logger),
		Service: service,
	}
}

var actorRoles = []string{
	string(usecase.RoleAdmin),
	string(usecase.RoleCleaner),
	string(usecase.RoleClient),
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}

	r.Get("/health", handler.Health.Health)

	wireEstimate(r, handler.Estimate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor(logger, actorRoles...))

		wireBooking(r, handler.Booking)
		wireLoyalty(r, handler.Loyalty)
	})

	return r
}
