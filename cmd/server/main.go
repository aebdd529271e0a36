package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/api"
	"lenslink-backend-go/internal/cache"
	"lenslink-backend-go/internal/config"
	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/gateway"
	"lenslink-backend-go/internal/middleware"
	"lenslink-backend-go/internal/notify"
	"lenslink-backend-go/internal/queue"
	"lenslink-backend-go/internal/worker"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	// .env is optional; real deployments inject environment variables directly.
	if err := godotenv.Load(); err == nil {
		zapLogger.Info("Loaded environment from .env file.")
	}
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}

	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if db.GetFirebaseAuthClient() == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}

	// --- 4. Initialize Infrastructure (queue, cache) ---
	mq, err := queue.NewRabbitMQService(appConfig.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mq.Close()

	// Redis is optional: without it the marketplace listing just skips caching.
	var eventCache cache.Cache
	if appConfig.RedisAddr != "" {
		eventCache, err = cache.NewRedisCache(cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Failed to connect to Redis; continuing without cache", zap.Error(err))
			eventCache = nil
		}
	}

	// --- 5. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	eventRepo := db.NewFirestoreEventRepository(firestoreClient)
	contactRepo := db.NewFirestoreContactRepository(firestoreClient)
	folderRepo := db.NewFirestoreFolderRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize Services and the Notifier ---
	userService := core.NewUserService(userRepo)
	eventService := core.NewEventService(eventRepo, eventCache, mq, zapLogger)
	contactService := core.NewContactService(contactRepo)
	folderService := core.NewFolderService(folderRepo, appConfig.ClientURL+"/storage")

	smsClient := gateway.NewSMSClient(appConfig, zapLogger)
	paymentClient := gateway.NewPaymentClient(appConfig, zapLogger)
	notifier := notify.NewNotifier(userRepo, smsClient, paymentClient, appConfig.ClientURL, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Start Background Workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	// Notifier consumer: every event-document write lands here.
	go func() {
		if err := mq.Consume(queue.EventChangesQueue, func(body []byte) {
			notifier.HandleMessage(workerCtx, body)
		}); err != nil {
			zapLogger.Error("Event change consumer stopped", zap.Error(err))
		}
	}()

	// Date sweeper: accepted events whose date passed move to pending-upload.
	sweeper := worker.NewDateSweeper(eventRepo, eventService, appConfig.UploadSweepInterval, zapLogger)
	go sweeper.Run(workerCtx)

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	// --- 9. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		eventService,
		contactService,
		folderService,
	)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	cancelWorkers()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
