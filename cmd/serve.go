package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"bankroll/bot"
	"bankroll/config"
	"bankroll/database"
	"bankroll/events"
	"bankroll/infrastructure"
	"bankroll/infrastructure/observability"
	"bankroll/repository"
	"bankroll/service"
	"bankroll/stats"
	"bankroll/web"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the Discord bot and the NATS bridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

// runServe initializes and starts the application
func runServe(ctx context.Context, cfg *config.Config) error {
	log.WithField("environment", cfg.Environment).Info("Starting bankroll...")

	clock, err := stats.NewTimezoneClock(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	log.Info("Initializing metrics...")
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics")
		}
	}()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	eventBus.SubscribeAll(observability.GetMetrics().HandleEvent)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	sessionService := service.NewSessionService(uowFactory, clock)
	playerService := service.NewPlayerService(uowFactory)
	statsService := service.NewStatsService(uowFactory)
	log.Info("Services initialized successfully")

	if cfg.NATSEnabled() {
		natsClient, err := startNATSBridge(ctx, cfg, eventBus)
		if err != nil {
			return err
		}
		defer natsClient.Close()
	} else {
		log.Info("NATS_SERVERS not set, running without cross-instance events")
	}

	feed := web.NewChangeFeed()
	feed.Attach(eventBus)

	server := web.NewServer(cfg.HTTPAddr, web.Services{
		Sessions: sessionService,
		Players:  playerService,
		Stats:    statsService,
	}, clock, feed)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})

	if cfg.BotEnabled() {
		log.Info("Initializing Discord bot...")
		discordBot, err := bot.New(bot.Config{
			Token:     cfg.DiscordToken,
			GuildID:   cfg.DiscordGuildID,
			ChannelID: cfg.DiscordChannelID,
		}, statsService, playerService, clock, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Info("Discord bot initialized successfully")
		g.Go(func() error {
			return discordBot.Run(gctx)
		})
	}

	log.Info("bankroll is running")
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Shutdown completed")
	return nil
}

// startNATSBridge connects to NATS and mirrors domain events between instances
func startNATSBridge(ctx context.Context, cfg *config.Config, eventBus *events.Bus) (*infrastructure.NATSClient, error) {
	log.Info("Connecting to NATS...")
	client := infrastructure.NewNATSClient(cfg.NATSServers, infrastructure.ServiceName)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.DomainEventStream, mapper.GetAllSubjects()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	sourceID := uuid.NewString()
	infrastructure.NewNATSEventPublisher(client, mapper, sourceID).Attach(eventBus)

	subscriber := infrastructure.NewNATSEventSubscriber(client, mapper, eventBus, sourceID)
	if err := subscriber.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	log.WithField("sourceID", sourceID).Info("NATS event bridge started")
	return client, nil
}
