package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tube-catalog/domain/repository"
	"tube-catalog/infrastructure/cache"
	youtubeclient "tube-catalog/infrastructure/clients/youtube"
	"tube-catalog/infrastructure/configuration"
	"tube-catalog/infrastructure/logger"
	"tube-catalog/infrastructure/persistence"
	"tube-catalog/infrastructure/pubsub"
	"tube-catalog/infrastructure/refdata"
	"tube-catalog/infrastructure/servicebus"
	"tube-catalog/usecase"

	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	psqlDb, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
	}

	// Reference data is loaded once and passed by reference from here on.
	refData, err := refdata.New(os.DirFS(configuration.C.RefData.Dir), configuration.C.RefData.Categories)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Reference data initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().
		WithField("languages", len(refData.Languages())).
		WithField("regions", len(refData.Regions())).
		Info("Reference data loaded")

	// Seed the i18n language table so stored entities can join against it.
	if psqlDb != nil {
		if err := persistence.EnsureI18nLanguageSchema(psqlDb); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring i18n language schema")
		}
		i18nRepo := persistence.NewI18nLanguageRepository(psqlDb)
		if err := i18nRepo.SaveAll(ctx, refData.Languages()); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed seeding i18n languages")
		}
	}

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without search logging")
		mongoDb = nil
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - continuing without search logging")
		mongoDb = nil
	}

	gormDb, err := persistence.NewMySQLGorm()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MySQL not available - continuing without thumbnail storage")
		gormDb = nil
	} else if err := persistence.EnsureThumbnailSchema(gormDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring thumbnail schema")
	}

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without cache events")
		pubSubClient = nil
	}
	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without cache events")
		azServiceBusClient = nil
	}

	// Cache store backend selection
	var apiCache repository.IAPICache
	switch configuration.C.App.CacheBackend {
	case "redis":
		redisClient, rErr := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
			configuration.C.RedisClient.Username,
			configuration.C.RedisClient.Password,
		)
		if rErr != nil {
			logger.GetLogger().WithField("error", rErr).Error("Redis backend requested but unavailable")
			os.Exit(1)
		}
		apiCache = cache.NewAPICacheRedis(redisClient)
	case "mssql":
		mssqlDb, mErr := persistence.NewMSSQLDB()
		if mErr != nil {
			logger.GetLogger().WithField("error", mErr).Error("MSSQL backend requested but unavailable")
			os.Exit(1)
		}
		if err := persistence.EnsureAPICacheSchemaMSSQL(mssqlDb); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring api cache schema (mssql)")
		}
		apiCache = persistence.NewAPICacheRepositoryMSSQL(mssqlDb)
	default:
		if psqlDb != nil {
			if err := persistence.EnsureAPICacheSchema(psqlDb); err != nil {
				logger.GetLogger().WithField("error", err).Error("failed ensuring api cache schema")
			}
		}
		apiCache = persistence.NewAPICacheRepository(psqlDb)
	}

	// Domain persistence schemas
	if psqlDb != nil {
		for name, ensure := range map[string]func(*sql.DB) error{
			"channels":  persistence.EnsureChannelSchema,
			"videos":    persistence.EnsureVideoSchema,
			"playlists": persistence.EnsurePlaylistSchema,
		} {
			if err := ensure(psqlDb); err != nil {
				logger.GetLogger().WithField("error", err).WithField("schema", name).Error("failed ensuring schema")
			}
		}
	}

	platformConfig, err := configuration.GetPlatformConfig()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Platform configuration not found")
		os.Exit(1)
	}
	platformClient, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		ClientID:     platformConfig.ClientID,
		ClientSecret: platformConfig.ClientSecret,
		RedirectURL:  platformConfig.RedirectURL,
		AccessToken:  platformConfig.AccessToken,
		RefreshToken: platformConfig.RefreshToken,
		APIKey:       platformConfig.APIKey,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to initialize platform client")
		os.Exit(1)
	}

	gateway := usecase.NewGatewayUseCase(platformClient, apiCache).
		WithRepositories(
			persistence.NewChannelRepository(psqlDb),
			persistence.NewVideoRepository(psqlDb),
			persistence.NewPlaylistRepository(psqlDb),
			persistence.NewThumbnailRepository(gormDb),
			persistence.NewVideoSearchRequestRepository(mongoDb),
		).
		WithEvents(
			pubsub.NewCacheEventPublisher(pubSubClient, configuration.C.Pubsub.Topic),
			servicebus.NewCacheEventSender(azServiceBusClient, configuration.C.ServiceBus.Queue),
		)

	// Background refresh of the configured channel
	channelID := platformConfig.ChannelID
	interval := configuration.C.App.RefreshInterval()
	if channelID != "" && interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					syncCtx, cancelSync := context.WithTimeout(ctx, 30*time.Second)
					if _, err := gateway.SyncChannel(syncCtx, channelID); err != nil {
						logger.GetLogger().WithField("error", err).Warn("Channel refresh failed")
					}
					cancelSync()
				}
			}
		})
	} else {
		logger.GetLogger().Info("Channel refresh loop disabled (no channel id or interval configured)")
	}

	logger.GetLogger().WithField("cacheBackend", configuration.C.App.CacheBackend).Info("Starting application")

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.GetLogger().WithField("error", err).Error("Background worker returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens the primary PostgreSQL connection. A nil DB is
// tolerated; repositories degrade to no-ops for local experimentation.
func InitiateDatabase() (*sql.DB, error) {
	postgres, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, err
	}
	return postgres, nil
}
