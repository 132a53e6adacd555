package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmoralesv/turnia-backend/api/routes"
	"github.com/jmoralesv/turnia-backend/internal/clients"
	"github.com/jmoralesv/turnia-backend/internal/coordinators"
	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/internal/poller"
	"github.com/jmoralesv/turnia-backend/internal/reports"
	"github.com/jmoralesv/turnia-backend/internal/staff"
	"github.com/jmoralesv/turnia-backend/pkg/config"
	"github.com/jmoralesv/turnia-backend/pkg/db"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
	"github.com/jmoralesv/turnia-backend/pkg/maps"
	"github.com/jmoralesv/turnia-backend/pkg/metrics"
	"github.com/jmoralesv/turnia-backend/pkg/migrate"
	"github.com/jmoralesv/turnia-backend/pkg/pubsub"
	"github.com/jmoralesv/turnia-backend/pkg/redis"
	"github.com/jmoralesv/turnia-backend/pkg/sendgrid"
	"github.com/jmoralesv/turnia-backend/pkg/whatsapp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var notifier *whatsapp.Client
	if cfg.WhatsApp.Token != "" && cfg.WhatsApp.PhoneNumberID != "" {
		var opts []whatsapp.Option
		if cfg.WhatsApp.BaseURL != "" {
			opts = append(opts, whatsapp.WithBaseURL(cfg.WhatsApp.BaseURL))
		}
		notifier, err = whatsapp.NewClient(cfg.WhatsApp.Token, cfg.WhatsApp.PhoneNumberID, opts...)
		if err != nil {
			logg.Error(context.Background(), "failed to create whatsapp client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "whatsapp not configured, staffing requests disabled")
	}

	var travel *maps.Client
	if cfg.GoogleMaps.APIKey != "" && cfg.GoogleMaps.Origin != "" {
		travel, err = maps.NewClient(cfg.GoogleMaps.APIKey, cfg.GoogleMaps.Origin)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "google maps not configured, travel estimates fall back to manual minutes")
	}

	var mailer *sendgrid.Client
	if cfg.Sendgrid.APIKey != "" && cfg.Sendgrid.DefaultFrom != "" {
		mailer, err = sendgrid.NewClient(cfg.Sendgrid.APIKey, cfg.Sendgrid.DefaultFrom, "Turnia")
		if err != nil {
			logg.Error(context.Background(), "failed to create sendgrid client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, roster emails disabled")
	}

	var publisher *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		publisher, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create pubsub client", err)
			os.Exit(1)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "pubsub not configured, assignment events disabled")
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	// Assign through interface variables so an unconfigured client stays a
	// nil interface inside the service.
	var notifierDep orders.StaffNotifier
	if notifier != nil {
		notifierDep = notifier
	}
	var travelDep orders.TravelEstimator
	if travel != nil {
		travelDep = travel
	}
	var publisherDep orders.EventPublisher
	if publisher != nil {
		publisherDep = publisher
	}
	var mailerDep orders.RosterMailer
	if mailer != nil {
		mailerDep = mailer
	}

	ordersSvc, err := orders.NewService(
		ordersRepo,
		dbClient,
		logg,
		notifierDep,
		publisherDep,
		travelDep,
		mailerDep,
		cfg.Expiry.RejectionDelay,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	staffRepo := staff.NewRepository(dbClient.DB())
	staffSvc, err := staff.NewService(staffRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create staff service", err)
		os.Exit(1)
	}

	clientsSvc, err := clients.NewService(clients.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}

	coordinatorsSvc, err := coordinators.NewService(coordinators.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create coordinators service", err)
		os.Exit(1)
	}

	reportsSvc, err := reports.NewService(ordersRepo, staffRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	// The notification feed is in-memory, so the refresh loop runs inside
	// the API process.
	feed := poller.NewFeedWithTTL(cfg.Polling.NotificationTTL)
	pollParams := poller.ServiceParams{
		Logger:     logg,
		Repository: ordersRepo,
		Feed:       feed,
		Metrics:    metrics.NewPollerMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Polling.Interval,
	}
	if publisher != nil {
		pollParams.Publisher = publisher
	}
	pollSvc, err := poller.NewService(pollParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create poller", err)
		os.Exit(1)
	}

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go func() {
		if err := pollSvc.Run(pollCtx); err != nil && err != context.Canceled {
			logg.Error(pollCtx, "poller stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Orders:       ordersSvc,
			Staff:        staffSvc,
			Clients:      clientsSvc,
			Coordinators: coordinatorsSvc,
			Reports:      reportsSvc,
			Feed:         feed,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
