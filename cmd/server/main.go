package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farm-shop/config"
	"farm-shop/internal/api"
	"farm-shop/internal/broker"
	"farm-shop/internal/cart"
	"farm-shop/internal/catalog"
	"farm-shop/internal/service"
	"farm-shop/internal/storage"
	"farm-shop/internal/util"
	"farm-shop/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting farm-shop server")

	tp, err := util.InitTracer("farm-shop", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	kv, closeKV, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open session storage: %v", err)
	}
	defer closeKV()
	log.Printf("Session storage ready: backend=%s", cfg.Storage.Backend)

	ix, err := loadCatalog(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d items", ix.Len())

	var publisher *broker.EventPublisher
	var feedWorker *worker.FeedWorker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders, cfg.Kafka.ConsumerGroup)
		feedWorker = worker.NewFeedWorker(consumer)
		go func() {
			if err := feedWorker.Start(workerCtx); err != nil {
				log.Printf("Order feed worker error: %v", err)
			}
		}()
	}

	carts := cart.NewStore(kv, cfg.Shop.QtyStep, cfg.Shop.MinQty)

	// No sink server-side: the client copies the returned text itself.
	shop := service.NewShopService(ix, carts, publisher, nil, cfg.Shop)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(shop)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	if feedWorker != nil {
		feedWorker.Stop()
	}

	log.Println("Server exited")
}

func openStorage(cfg config.StorageConfig) (storage.KV, func(), error) {
	switch cfg.Backend {
	case "redis":
		r, err := storage.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { r.Close() }, nil
	case "memory":
		return storage.NewMemory(), func() {}, nil
	case "file":
		f, err := storage.NewFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Index, error) {
	switch cfg.Source {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return catalog.LoadPostgres(ctx, cfg.DatabaseURL)
	case "file":
		return catalog.LoadFile(cfg.FilePath)
	case "embedded":
		return catalog.LoadEmbedded()
	default:
		return nil, fmt.Errorf("unknown catalog source: %s", cfg.Source)
	}
}
