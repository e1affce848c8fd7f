package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yralfoods/donut-shop/internal/cache"
	"github.com/yralfoods/donut-shop/internal/cart"
	"github.com/yralfoods/donut-shop/internal/checkout"
	h "github.com/yralfoods/donut-shop/internal/http"
	"github.com/yralfoods/donut-shop/internal/payment"
	"github.com/yralfoods/donut-shop/internal/repository"
)

type Config struct {
	HTTPPort            string
	MongoURI            string
	MongoDBName         string
	MongoConnectTimeout time.Duration
	MongoMaxPool        uint64
	MongoMinPool        uint64
	RedisAddr           string
	RedisPassword       string
	SquareBaseURL       string
	SquareAccessToken   string
	SquareLocationID    string
	RequestTimeout      time.Duration
	ShutdownTimeout     time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:         getEnv("MONGO_DB_NAME", "donutshop"),
		MongoConnectTimeout: 10 * time.Second,
		MongoMaxPool:        100,
		MongoMinPool:        10,
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		SquareBaseURL:       getEnv("SQUARE_BASE_URL", "https://connect.squareupsandbox.com"),
		SquareAccessToken:   getEnv("SQUARE_ACCESS_TOKEN", ""),
		SquareLocationID:    getEnv("SQUARE_LOCATION_ID", ""),
		RequestTimeout:      30 * time.Second,
		ShutdownTimeout:     10 * time.Second,
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

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName, repository.ConnectionConfig{
		ConnectTimeout: cfg.MongoConnectTimeout,
		MaxPoolSize:    cfg.MongoMaxPool,
		MinPoolSize:    cfg.MongoMinPool,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

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

	// Repositories
	cartRepo := repository.NewMongoCartRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)
	accountRepo := repository.NewMongoAccountRepository(mongoDB)
	shippingRepo := repository.NewMongoShippingRepository(mongoDB)
	storeRepo := repository.NewMongoStoreRepository(mongoDB)
	catalogRepo := repository.NewMongoCatalogRepository(mongoDB)

	// Services
	cartCache := cache.NewRedisCache(redisClient)
	guestStore := cache.NewGuestCartStore(redisClient)
	cartService := cart.NewService(cartRepo, guestStore, cartCache)
	engine := checkout.NewService(orderRepo, cartService)
	processor := payment.NewSquareClient(cfg.SquareBaseURL, cfg.SquareAccessToken, cfg.SquareLocationID)

	// Handlers
	cartHandler := h.NewCartHandler(cartService, catalogRepo, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(engine, cartService, accountRepo, storeRepo, shippingRepo, processor, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(orderRepo, cfg.RequestTimeout)
	accountHandler := h.NewAccountHandler(accountRepo, cfg.RequestTimeout)
	storeHandler := h.NewStoreHandler(storeRepo, cfg.RequestTimeout)
	productHandler := h.NewProductHandler(catalogRepo, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{entry_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{entry_id}", cartHandler.RemoveEntry)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.PlaceOrder)
			r.Post("/coupon", checkoutHandler.ApplyCoupon)
			r.Get("/delivery-rules", checkoutHandler.DeliveryRules)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})
		r.Route("/account", func(r chi.Router) {
			r.Get("/", accountHandler.GetProfile)
			r.Post("/addresses", accountHandler.AddAddress)
			r.Delete("/addresses", accountHandler.RemoveAddress)
			r.Put("/store", accountHandler.SelectStore)
		})
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", storeHandler.ListStores)
			r.Get("/{store_id}/status", storeHandler.StoreStatus)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{slug}", productHandler.GetProduct)
			r.Get("/{slug}/reviews", productHandler.ListReviews)
			r.Post("/{slug}/reviews", productHandler.AddReview)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
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

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}
	log.Println("server exited")
}
