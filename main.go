package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/chimgan/sales/internal/api"
	"github.com/chimgan/sales/internal/api/middleware"
	"github.com/chimgan/sales/internal/cache"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/conversations"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/email"
	"github.com/chimgan/sales/internal/images"
	"github.com/chimgan/sales/internal/realtime"
	"github.com/chimgan/sales/internal/services"
	"github.com/chimgan/sales/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	mongoClient, mongoDb, err := db.ConnectDB(startCtx, cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	if err := db.EnsureIndexes(startCtx, mongoDb); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	redisClient, err := cache.ConnectRedis(startCtx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Cancelled on shutdown; stops the pub/sub relays and the limiter sweep.
	runCtx, stopRunning := context.WithCancel(context.Background())
	defer stopRunning()

	var wg sync.WaitGroup

	hub := realtime.NewHub(redisClient)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hub.Run(runCtx); err != nil {
			log.Printf("ERROR: change relay stopped: %v", err)
		}
	}()

	configSvc := services.NewConfigService(mongoDb, cfg, redisClient)
	if err := configSvc.Load(startCtx); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := configSvc.SubscribeToChanges(runCtx); err != nil {
			log.Printf("ERROR: settings subscription stopped: %v", err)
		}
	}()

	taskClient := asynq.NewClient(cache.AsynqOpt(cfg))
	defer taskClient.Close()
	queue := tasks.NewQueue(taskClient)

	userSvc := services.NewUserService(mongoDb, cfg)
	itemSvc := services.NewItemService(mongoDb, cfg, configSvc)
	inquirySvc := services.NewInquiryService(mongoDb, itemSvc, userSvc, hub, queue)
	categorySvc := services.NewCategoryService(mongoDb)
	analyticsSvc := services.NewAnalyticsService(mongoDb)
	templateSvc := services.NewEmailTemplateService(mongoDb)

	shutdownChan := make(chan struct{}, 1)

	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(cfg, redisClient, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Printf("Service API listening on :%s\n", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
		fmt.Println("Service API server stopped.")
	}()

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")
		backend, err := images.NewBackend(startCtx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize image host: %v", err)
		}
		rateLimiter := middleware.NewRateLimiterMiddleware(cfg, configSvc)
		wg.Add(1)
		go func() {
			defer wg.Done()
			rateLimiter.Cleanup(runCtx, 5*time.Minute, 10*time.Minute)
		}()

		router := api.SetupRouter(api.Deps{
			Config:      cfg,
			Items:       itemSvc,
			Inquiries:   inquirySvc,
			Users:       userSvc,
			Categories:  categorySvc,
			Analytics:   analyticsSvc,
			Settings:    configSvc,
			Templates:   templateSvc,
			Uploader:    images.NewUploader(backend, cfg),
			Feed:        conversations.NewStoreFeed(inquirySvc, hub),
			RateLimiter: rateLimiter,
		})
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	bgMode := func() {
		fmt.Println("Starting background worker...")
		sender, err := email.NewSenderChain(cfg, redisClient)
		if err != nil {
			log.Fatalf("Failed to initialize e-mail delivery: %v", err)
		}
		processor := tasks.NewTaskProcessor(cfg, sender, templateSvc, inquirySvc, userSvc, queue)
		backgroundTaskSrv = tasks.NewServer(cache.AsynqOpt(cfg))
		if err := backgroundTaskSrv.Start(tasks.NewMux(processor)); err != nil {
			log.Fatalf("Background task server error: %v", err)
		}
		fmt.Println("Background task server started.")
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified in config: %s.", cfg.RunMode)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)
	case <-shutdownChan:
		fmt.Println("\nShutdown requested via Service API. Shutting down gracefully...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	fmt.Println("Shutting down Service API server...")
	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Service API server shutdown error: %v", err)
	}
	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}
	if backgroundTaskSrv != nil {
		fmt.Println("Shutting down Background Task server...")
		backgroundTaskSrv.Shutdown()
	}
	stopRunning()

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
