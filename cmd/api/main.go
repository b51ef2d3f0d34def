package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	_ "cartflow/docs"
	"cartflow/pkg/cart"
	cartpg "cartflow/pkg/cart/postgres"
	cartredis "cartflow/pkg/cart/redis"
	"cartflow/pkg/catalog"
	"cartflow/pkg/checkout"
	"cartflow/pkg/logger"
	"cartflow/pkg/order"
	ordermem "cartflow/pkg/order/memory"
	orderpg "cartflow/pkg/order/postgres"
	"cartflow/pkg/otel"
)

var (
	redisClient *redis.Client
	storage     cart.Storage
	orders      order.Repository
	products    *catalog.Client
	checkoutSvc *checkout.Service
	log         *logger.Logger
	tracer      trace.Tracer
)

// @title Cartflow API
// @version 1.0
// @description Storefront cart, catalog and checkout API
// @host localhost:8080
// @BasePath /
func main() {
	log = logger.New(os.Stdout, logger.ParseLevel(os.Getenv("LOG_LEVEL")), "cartflow", otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "cartflow", Host: os.Getenv("OTEL_HOST"), Probability: 1.0})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())
	tracer = tp.Tracer("cartflow")

	redisClient = redis.NewClient(&redis.Options{Addr: getenv("REDIS_ADDR", "localhost:6379")})

	// Carts and orders live in Postgres when a DSN is configured;
	// otherwise carts go to redis and orders stay in memory.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Error(context.Background(), "db connect", "error", err)
			os.Exit(1)
		}
		stmts := []string{
			"CREATE TABLE IF NOT EXISTS carts (user_id TEXT PRIMARY KEY, items JSONB NOT NULL)",
			"CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, items JSONB NOT NULL, total DOUBLE PRECISION NOT NULL, status TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL)",
		}
		for _, stmt := range stmts {
			if _, err := db.Exec(stmt); err != nil {
				log.Error(context.Background(), "create table", "error", err)
				os.Exit(1)
			}
		}
		storage = cartpg.New(db)
		orders = orderpg.New(db)
	} else {
		storage = cartredis.New(redisClient)
		orders = ordermem.New()
	}

	products = catalog.New(getenv("CATALOG_URL", "https://fakestoreapi.com"))
	checkoutSvc = checkout.NewService(orders, log)

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.HandleFunc("/login", loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/logout", logoutHandler).Methods(http.MethodPost)

	r.HandleFunc("/products", listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/categories", listCategoriesHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/category/{name}", productsByCategoryHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", getProductHandler).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/cart", getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", reorderCartHandler).Methods(http.MethodPut)
	api.HandleFunc("/cart", clearCartHandler).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", addItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id:[0-9]+}", updateItemHandler).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id:[0-9]+}", removeItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/checkout", checkoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders", listOrdersHandler).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	addr := getenv("ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		log.Error(context.Background(), "server closed", "error", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
