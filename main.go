package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamsync-project/backend/workspace-service/config"
	"teamsync-project/backend/workspace-service/dialog"
	"teamsync-project/backend/workspace-service/forms"
	"teamsync-project/backend/workspace-service/generator"
	"teamsync-project/backend/workspace-service/handlers"
	"teamsync-project/backend/workspace-service/logging"
	"teamsync-project/backend/workspace-service/metrics"
	"teamsync-project/backend/workspace-service/middleware"
	"teamsync-project/backend/workspace-service/routes"
	"teamsync-project/backend/workspace-service/services"
	"teamsync-project/backend/workspace-service/store"
	"teamsync-project/backend/workspace-service/store/memory"
	"teamsync-project/backend/workspace-service/store/mongostore"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_LOAD_FAILED, Description: %v", err)
	}
	logging.InitLogger(logging.Options{SystemName: "workspace-service", File: cfg.LogFile, Level: cfg.LogLevel})

	ctx := context.Background()

	var stores store.Stores
	var closeStore func()
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logging.Logger.Warn("Event ID: MEMORY_STORE, Description: Using the in-memory store; data is lost on restart")
		stores = memory.New()
		closeStore = func() {}
	default:
		client, mongoStores, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		stores = mongoStores
		closeStore = func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
			}
		}
	}
	defer closeStore()

	var revocations services.RevocationStore = services.NewCacheRevocationStore()
	if cfg.RedisURL != "" {
		redisStore, err := services.NewRedisRevocationStore(ctx, cfg.RedisURL)
		if err != nil {
			logging.Logger.Fatalf("Event ID: REDIS_CONNECTION_FAILED, Description: %v", err)
		}
		defer redisStore.Close()
		revocations = redisStore
	}

	var blackList map[string]bool
	if cfg.PasswordBlacklistFile != "" {
		if blackList, err = services.LoadBlackList(cfg.PasswordBlacklistFile); err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: %v", err)
		}
	}

	roster, err := generator.LoadRoster(cfg.GeneratorMembersFile)
	if err != nil {
		logging.Logger.Fatalf("Event ID: ROSTER_LOAD_FAILED, Description: %v", err)
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	workspaceService := services.NewWorkspaceService(stores)
	projectService := services.NewProjectService(stores, workspaceService)
	taskService := services.NewTaskService(stores, projectService, workspaceService)
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	authService := services.NewAuthService(stores.Users, workspaceService, jwtService, revocations, blackList)

	var google services.OAuthProvider
	if cfg.GoogleEnabled() {
		google = services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	} else {
		logging.Logger.Warn("Event ID: GOOGLE_AUTH_DISABLED, Description: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set")
	}

	generators := generator.NewRegistry(generator.RegistryOptions{
		Delay:    cfg.GeneratorDelay,
		TTL:      cfg.SessionTTL,
		Roster:   roster,
		Observer: appMetrics,
	})
	dialogs := dialog.NewRegistry(&forms.Factory{
		Workspaces: workspaceService,
		Projects:   projectService,
		Tasks:      taskService,
		Generator:  generators,
	}, cfg.SessionTTL)

	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	if err := authLimiter.TrustProxies(cfg.TrustedProxies); err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_INVALID, Description: %v", err)
	}

	waitTimeout := cfg.GeneratorDelay + 10*time.Second
	router := routes.NewRouter(routes.Deps{
		Auth:          handlers.NewAuthHandler(authService, google, cfg.FrontendGoogleCallbackURL),
		Users:         handlers.NewUserHandler(authService, workspaceService),
		Workspaces:    handlers.NewWorkspaceHandler(workspaceService),
		Projects:      handlers.NewProjectHandler(projectService),
		Tasks:         handlers.NewTaskHandler(taskService),
		Dialogs:       handlers.NewDialogHandler(dialogs),
		Generator:     handlers.NewGeneratorHandler(generators, waitTimeout),
		Authenticator: authService,
		AuthLimiter:   authLimiter,
		Metrics:       appMetrics,
		Gatherer:      prometheus.DefaultGatherer,
		CORSOrigin:    cfg.CORSOrigin,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      waitTimeout + 5*time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START, Description: Server is running on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	<-stop
	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shut down signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
	logging.Logger.Info("Event ID: SERVER_STOPPED, Description: Shut down gracefully")
}
