package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/4PPL8/wahabstore/internal/auth"
	"github.com/4PPL8/wahabstore/internal/cache"
	"github.com/4PPL8/wahabstore/internal/cart"
	"github.com/4PPL8/wahabstore/internal/catalog"
	"github.com/4PPL8/wahabstore/internal/checkout"
	"github.com/4PPL8/wahabstore/internal/notify"
	"github.com/4PPL8/wahabstore/internal/repository"
	"github.com/4PPL8/wahabstore/internal/server"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	CatalogDBPath   string
	MigrationsPath  string
	KafkaBrokers    string // comma-separated, empty disables order events
	OrderEmail      string
	WhatsAppNumber  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storedb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "./catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/catalog/migrations"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		OrderEmail:      getEnv("ORDER_EMAIL", "orders@pakgrocery.com"),
		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", "923001234567"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Catalog (sqlite, seeded by migrations)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog ready at %s", cfg.CatalogDBPath)

	// Durable storage (MongoDB)
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := repository.NewMongoCartRepository(mongoDB)
	userRepo := repository.NewMongoUserRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	if err := userRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	// Cart cache (Redis)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewRedisCache(redisClient)

	notifier := notify.LogNotifier{}

	cartService := cart.NewService(cartRepo, cartCache, notifier)
	authService := auth.NewService(userRepo, auth.NewPendingStore(), notifier)

	links := checkout.NewLinkBuilder(cfg.OrderEmail, cfg.WhatsAppNumber)

	var publisher *checkout.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = checkout.NewPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer publisher.Close()
		log.Printf("Order events enabled, brokers: %s", cfg.KafkaBrokers)
	}

	productHandler := server.NewProductHandler(catalogRepo, cfg.RequestTimeout)
	cartHandler := server.NewCartHandler(cartService, catalogRepo, cfg.RequestTimeout)
	authHandler := server.NewAuthHandler(authService, cfg.RequestTimeout)
	checkoutHandler := server.NewCheckoutHandler(cartService, authService, links, publisher, cfg.RequestTimeout)

	router := server.NewRouter(productHandler, cartHandler, authHandler, checkoutHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	mongoDB.Client().Disconnect(shutdownCtx)
	log.Println("server exited")
}
