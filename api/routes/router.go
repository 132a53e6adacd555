// Package routes assembles the HTTP surface of the dashboard backend.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmoralesv/turnia-backend/api/controllers"
	"github.com/jmoralesv/turnia-backend/api/middleware"
	"github.com/jmoralesv/turnia-backend/internal/clients"
	"github.com/jmoralesv/turnia-backend/internal/coordinators"
	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/internal/poller"
	"github.com/jmoralesv/turnia-backend/internal/reports"
	"github.com/jmoralesv/turnia-backend/internal/staff"
	"github.com/jmoralesv/turnia-backend/pkg/config"
	"github.com/jmoralesv/turnia-backend/pkg/db"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
	"github.com/jmoralesv/turnia-backend/pkg/redis"
)

// Deps carries everything the router wires into controllers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client

	Orders       orders.Service
	Staff        staff.Service
	Clients      clients.Service
	Coordinators coordinators.Service
	Reports      *reports.Service
	Feed         *poller.Feed
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Post("/", controllers.OrdersCreate(deps.Orders, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrdersGet(deps.Orders, logg))
				r.Put("/", controllers.OrdersUpdate(deps.Orders, logg))
				r.Delete("/", controllers.OrdersDelete(deps.Orders, logg))
				r.Get("/meeting-time", controllers.OrdersMeetingTime(deps.Orders, logg))

				r.Route("/assignments", func(r chi.Router) {
					r.Post("/", controllers.AssignmentsCreate(deps.Orders, logg))
					r.Route("/{assignmentID}", func(r chi.Router) {
						r.Patch("/status", controllers.AssignmentsChangeStatus(deps.Orders, logg))
						r.Put("/times", controllers.AssignmentsUpdateTimes(deps.Orders, logg))
						r.Delete("/", controllers.AssignmentsRemove(deps.Orders, logg))
					})
				})
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", controllers.StaffList(deps.Staff, logg))
			r.Post("/", controllers.StaffCreate(deps.Staff, logg))
			r.Route("/{staffID}", func(r chi.Router) {
				r.Get("/", controllers.StaffGet(deps.Staff, logg))
				r.Put("/", controllers.StaffUpdate(deps.Staff, logg))
				r.Delete("/", controllers.StaffDelete(deps.Staff, logg))
				r.Put("/availability", controllers.StaffSetAvailability(deps.Staff, logg))
			})
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientsList(deps.Clients, logg))
			r.Post("/", controllers.ClientsCreate(deps.Clients, logg))
			r.Route("/{clientID}", func(r chi.Router) {
				r.Get("/", controllers.ClientsGet(deps.Clients, logg))
				r.Put("/", controllers.ClientsUpdate(deps.Clients, logg))
				r.Delete("/", controllers.ClientsDelete(deps.Clients, logg))
			})
		})

		r.Route("/coordinators", func(r chi.Router) {
			r.Get("/", controllers.CoordinatorsList(deps.Coordinators, logg))
			r.Post("/", controllers.CoordinatorsCreate(deps.Coordinators, logg))
			r.Route("/{coordinatorID}", func(r chi.Router) {
				r.Get("/", controllers.CoordinatorsGet(deps.Coordinators, logg))
				r.Put("/", controllers.CoordinatorsUpdate(deps.Coordinators, logg))
				r.Delete("/", controllers.CoordinatorsDelete(deps.Coordinators, logg))
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/metrics", controllers.ReportsMetrics(deps.Reports, logg))
			r.Get("/peak-demand", controllers.ReportsPeakDemand(deps.Reports, logg))
		})

		r.Get("/notifications", controllers.NotificationsList(deps.Feed, logg))
	})

	return r
}
