package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	apihttp "campusrecords/src/adapters/http"
	"campusrecords/src/domain/entities"
	"campusrecords/src/helper/env"
	"campusrecords/src/infra/jwt"
	"campusrecords/src/infra/kafka"
	"campusrecords/src/infra/postgres"
	"campusrecords/src/infra/redis"
	"campusrecords/src/repositories"
	"campusrecords/src/services/events"
	"campusrecords/src/services/records"
)

func main() {
	// Configurar logger
	log.SetOutput(os.Stdout)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	log.Println("Starting API server with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newKafkaClient,
			newAsyncEventPublisher,
			newEventPublisher,
			newTokenVerifier,
			newRecordService(repositories.RecommendationRequestSchema),
			newRecordService(repositories.UCSBDiningCommonsMenuItemSchema),
			newRecordService(repositories.UCSBOrganizationSchema),
			newRecordService(repositories.MenuItemReviewSchema),
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for app to exit gracefully
	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newReadWriteClient() (*postgres.ReadWriteClient, error) {
	dbReadHost := env.MustGetString("DB_READ_HOST")
	dbWriteHost := env.MustGetString("DB_WRITE_HOST")
	dbReadPort := env.GetString("DB_READ_PORT", "5432")
	dbWritePort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	return postgres.NewReadWriteClient(dbReadHost, dbWriteHost, dbReadPort, dbWritePort, dbname, dbUser, dbPassword, maxConnections)
}

// newRedisClient devolve nil quando REDIS_HOSTS não está definido: o cache fica desligado.
func newRedisClient() *redis.RedisClient {
	redisHosts := env.GetString("REDIS_HOSTS")
	if redisHosts == "" {
		log.Println("REDIS_HOSTS not set, record cache disabled")
		return nil
	}

	redisPoolSize := env.GetInt("REDIS_POOL_SIZE", 50)
	redisDefaultTTL := env.GetSeconds("REDIS_DEFAULT_TTL_SECONDS", 120)

	return redis.NewRedisClient(redisHosts, redisPoolSize, redisDefaultTTL)
}

// newKafkaClient devolve nil quando KAFKA_BROKERS não está definido. A API só publica.
func newKafkaClient() (*kafka.KafkaClient, error) {
	brokers := env.GetString("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("KAFKA_BROKERS not set, record events disabled")
		return nil, nil
	}

	batchSize := env.GetInt("KAFKA_BATCH_SIZE", 100)

	return kafka.NewKafkaClient(brokers, "", batchSize)
}

// newAsyncEventPublisher devolve nil sem Kafka. A fila desacopla a requisição do broker.
func newAsyncEventPublisher(logger *slog.Logger, kafkaClient *kafka.KafkaClient) *events.AsyncRecordEventPublisher {
	if kafkaClient == nil {
		return nil
	}

	topic := env.GetString("KAFKA_RECORD_EVENTS_TOPIC", "record-events")
	queueSize := env.GetInt("KAFKA_RECORD_EVENTS_QUEUE_SIZE", 1000)
	batchSize := env.GetInt("KAFKA_BATCH_SIZE", 100)

	return events.NewAsyncRecordEventPublisher(logger,
		events.NewRecordEventPublisher(logger, kafkaClient, topic),
		queueSize, batchSize)
}

func newEventPublisher(asyncPublisher *events.AsyncRecordEventPublisher) records.EventPublisher {
	if asyncPublisher == nil {
		return records.NopEventPublisher{}
	}
	return asyncPublisher
}

func newTokenVerifier() *jwt.TokenVerifier {
	secret := env.MustGetString("JWT_SECRET")
	issuer := env.GetString("JWT_ISSUER", "campus-records-api")

	return jwt.NewTokenVerifier(secret, issuer)
}

// newRecordService monta repositório (com cache quando há Redis) e serviço de um tipo de registro.
func newRecordService[T repositories.Record[T]](schema repositories.RecordSchema[T]) func(
	logger *slog.Logger,
	readWriteClient *postgres.ReadWriteClient,
	redisClient *redis.RedisClient,
	publisher records.EventPublisher,
) *records.RecordService[T] {
	return func(
		logger *slog.Logger,
		readWriteClient *postgres.ReadWriteClient,
		redisClient *redis.RedisClient,
		publisher records.EventPublisher,
	) *records.RecordService[T] {
		recordRepository := repositories.NewRecordRepository(readWriteClient, schema)

		var repository records.Repository[T] = recordRepository
		if redisClient != nil {
			repository = repositories.NewCachedRecordRepository[T](logger, recordRepository, redisClient)
		}

		return records.NewRecordService(logger, schema.RecordType, repository, publisher).
			WithDisplayName(schema.Name())
	}
}

func newServer(
	logger *slog.Logger,
	readWriteClient *postgres.ReadWriteClient,
	redisClient *redis.RedisClient,
	verifier *jwt.TokenVerifier,
	recommendationRequests *records.RecordService[entities.RecommendationRequest],
	menuItems *records.RecordService[entities.UCSBDiningCommonsMenuItem],
	organizations *records.RecordService[entities.UCSBOrganization],
	menuItemReviews *records.RecordService[entities.MenuItemReview],
) *apihttp.Server {
	port := env.GetInt("SERVER_ADDR", 8080)

	checks := apihttp.HealthChecks{"postgres": readWriteClient.Ping}
	if redisClient != nil {
		checks["redis"] = redisClient.HealthCheck
	}

	return apihttp.NewServer(logger, port, verifier, checks,
		apihttp.NewRecordRoutes(logger, "/api/recommendationrequest", recommendationRequests, apihttp.DecodeRecommendationRequest),
		apihttp.NewRecordRoutes(logger, "/api/ucsbdiningcommonsmenuitem", menuItems, apihttp.DecodeUCSBDiningCommonsMenuItem),
		apihttp.NewRecordRoutes(logger, "/api/ucsborganization", organizations, apihttp.DecodeUCSBOrganization),
		apihttp.NewRecordRoutes(logger, "/api/menuitemreview", menuItemReviews, apihttp.DecodeMenuItemReview),
	)
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(
	lc fx.Lifecycle,
	srv *apihttp.Server,
	readWriteClient *postgres.ReadWriteClient,
	redisClient *redis.RedisClient,
	kafkaClient *kafka.KafkaClient,
	asyncPublisher *events.AsyncRecordEventPublisher,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Start server in a separate goroutine
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Create timeout context for graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
				return err
			}

			// Esvazia a fila de eventos antes de fechar o producer
			if asyncPublisher != nil {
				if err := asyncPublisher.Close(shutdownCtx); err != nil {
					log.Printf("Record events still queued at shutdown were dropped: %v", err)
				}
			}
			if kafkaClient != nil {
				if err := kafkaClient.Close(); err != nil {
					log.Printf("Failed to close Kafka client: %v", err)
				}
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					log.Printf("Failed to close Redis client: %v", err)
				}
			}
			readWriteClient.Close()

			log.Println("Server exited gracefully")
			return nil
		},
	})
}
