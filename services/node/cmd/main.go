package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// PostgreSQL Driver
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	// Graphe, verrous
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/rs/cors"

	"github.com/Nishchay412/Social-Distribution/pkg/logger"
	"github.com/Nishchay412/Social-Distribution/pkg/telemetry"
	"github.com/Nishchay412/Social-Distribution/services/node/config"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/primary/httpapi"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/secondary/eventbroker"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/secondary/lock"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/secondary/memory"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/secondary/repository"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/adapters/secondary/security"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/services"
)

// adapters regroupe les ports secondaires et de quoi les fermer.
type adapters struct {
	users  ports.UserRepository
	graph  ports.GraphRepository
	posts  ports.PostRepository
	locker ports.PairLocker
	broker ports.EventPublisher
	tokens *security.JWTProvider

	closers []func()
}

func (a *adapters) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func main() {
	// 1. Charger la Config
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	logger.Init(cfg.Env)
	slog.Info("🚀 Starting Social Node", "env", cfg.Env, "port", cfg.HTTPPort, "backend", cfg.StorageBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing
	tp, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
	})
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				slog.Error("Error shutting down tracer", "error", err)
			}
		}()
	}

	// 4. Infrastructure
	var infra *adapters
	if cfg.StorageBackend == config.BackendMemory {
		infra, err = memoryAdapters(cfg)
	} else {
		infra, err = externalAdapters(ctx, cfg)
	}
	if err != nil {
		slog.Error("Failed to init adapters", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	// 5. Wiring (Injection de dépendances) - Adapters -> Services
	hasher := security.NewArgon2Hasher(nil) // Params par défaut
	identityService := services.NewIdentityService(infra.users, hasher, infra.tokens, infra.broker)
	graphService := services.NewGraphService(infra.users, infra.graph, infra.locker, infra.broker)
	postService := services.NewPostService(infra.posts, infra.graph, infra.broker)
	feedService := services.NewFeedService(infra.posts, infra.graph, infra.users)

	router, err := httpapi.NewRouter(cfg.ServiceName,
		httpapi.NewHandler(identityService, graphService, postService, feedService),
		httpapi.WithAuthRateLimit(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
	)
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "traceparent", "baggage"},
		AllowCredentials: true,
	})

	// 6. Démarrage du serveur (Goroutine)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("📡 HTTP Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to serve", "error", err)
			os.Exit(1)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	sig := <-quit
	slog.Info("⚠️  Signal received, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("⏳ Timeout reached, forcing server stop", "error", err)
		_ = srv.Close()
	} else {
		slog.Info("✅ HTTP Server stopped gracefully")
	}

	slog.Info("👋 Service stopped")
}

// --- HELPERS ---

// memoryAdapters : tout en RAM. Sans clés RSA sur disque, on en génère une
// éphémère (les jetons ne survivent pas au redémarrage).
func memoryAdapters(cfg *config.Config) (*adapters, error) {
	tokens, err := tokenProvider(cfg)
	if err != nil {
		if cfg.Env == "prod" {
			return nil, err
		}
		slog.Warn("RSA keys unavailable, using an ephemeral key", "error", err)
		key, genErr := rsa.GenerateKey(rand.Reader, 2048)
		if genErr != nil {
			return nil, fmt.Errorf("generating RSA key: %w", genErr)
		}
		tokens = security.NewJWTProviderFromKey(key)
	}

	return &adapters{
		users:  memory.NewUserRepo(),
		graph:  memory.NewGraphRepo(),
		posts:  memory.NewPostRepo(),
		locker: memory.NewPairLocker(),
		broker: memory.NewPublisher(),
		tokens: tokens,
	}, nil
}

func externalAdapters(ctx context.Context, cfg *config.Config) (_ *adapters, err error) {
	a := &adapters{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// Postgres
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("parsing DB config: %w", err)
	}
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	a.closers = append(a.closers, dbPool.Close)

	// Fail fast
	if err := dbPool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("database schema: %w", err)
	}
	slog.Info("✅ Database connected")

	// Neo4j
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	a.closers = append(a.closers, func() { _ = driver.Close(context.Background()) })

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	graphRepo := repository.NewNeo4jGraphRepo(driver)
	if err := graphRepo.EnsureSchema(ctx); err != nil {
		slog.Warn("Failed to ensure graph schema", "error", err)
	}
	slog.Info("✅ Neo4j connected")

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		slog.Warn("Failed to instrument redis", "error", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	slog.Info("✅ Redis connected")

	// NATS JetStream
	broker, err := eventbroker.NewNatsBroker(cfg.NatsUrl)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	a.closers = append(a.closers, broker.Close)
	slog.Info("✅ NATS JetStream connected")

	// Sécurité
	tokens, err := tokenProvider(cfg)
	if err != nil {
		return nil, err
	}

	a.users = repository.NewPostgresUserRepo(dbPool)
	a.posts = repository.NewPostgresPostRepo(dbPool)
	a.graph = graphRepo
	a.locker = lock.NewRedisPairLocker(rdb, cfg.LockTTL)
	a.broker = broker
	a.tokens = tokens
	return a, nil
}

func tokenProvider(cfg *config.Config) (*security.JWTProvider, error) {
	privKey, pubKey, err := loadKeys(cfg.RSAPrivateKeyPath, cfg.RSAPublicKeyPath)
	if err != nil {
		return nil, err
	}
	p, err := security.NewJWTProvider(privKey, pubKey)
	if err != nil {
		return nil, fmt.Errorf("init JWT provider: %w", err)
	}
	return p, nil
}

func loadKeys(privPath, pubPath string) ([]byte, []byte, error) {
	priv, err := os.ReadFile(privPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading private key: %w", err)
	}
	pub, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading public key: %w", err)
	}
	return priv, pub, nil
}
