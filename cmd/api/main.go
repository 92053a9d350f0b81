package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"
	limiterchi "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/Hitarth2510/thrive-backend/internal/auth"
	"github.com/Hitarth2510/thrive-backend/internal/cart"
	"github.com/Hitarth2510/thrive-backend/internal/catalog"
	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/config"
	"github.com/Hitarth2510/thrive-backend/internal/db"
	"github.com/Hitarth2510/thrive-backend/internal/events"
	"github.com/Hitarth2510/thrive-backend/internal/health"
	"github.com/Hitarth2510/thrive-backend/internal/obs"
	"github.com/Hitarth2510/thrive-backend/internal/offer"
	"github.com/Hitarth2510/thrive-backend/internal/order"
	"github.com/Hitarth2510/thrive-backend/internal/org"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
	"github.com/Hitarth2510/thrive-backend/internal/receipt"
	"github.com/Hitarth2510/thrive-backend/internal/sales"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	tracingEnabled := envBool("OBS_ENABLE_TRACING", !cfg.DemoMode)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "thrive-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		pool        *pgxpool.Pool
		redisClient *redis.Client
		asynqClient *asynq.Client
	)

	var (
		authStore    auth.Store
		catalogStore catalog.Store
		offerStore   offer.Store
		orderStore   order.Store
		eventStore   events.Store
	)

	if cfg.DemoMode {
		logger.Info().Msg("running in demo mode with an in-memory dataset")
		authStore, catalogStore, offerStore, orderStore, eventStore = seedDemoStores(logger)
	} else {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse database config")
		}
		if poolConfig.ConnConfig.RuntimeParams == nil {
			poolConfig.ConnConfig.RuntimeParams = map[string]string{}
		}
		poolConfig.ConnConfig.RuntimeParams["application_name"] = "thrive-api"
		poolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
			pgxdecimal.Register(conn.TypeMap())
			return nil
		}
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("ping database")
		}
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}

		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}

		asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB})
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close task client")
			}
		}()

		authStore = auth.NewPostgresStore(pool)
		catalogStore = catalog.NewPostgresStore(pool)
		offerStore = offer.NewPostgresStore(pool)
		orderStore = order.NewPostgresStore(pool)
		eventStore = events.NewPostgresStore(pool)
	}

	validate := validator.New()
	pricingOpts := pricing.Options{ClampTotal: cfg.PricingClampTotals}

	bus := &events.Bus{
		Store:     eventStore,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	authService, err := auth.NewService(auth.Config{
		Store:          authStore,
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := auth.Handler{Service: authService, Validate: validate}
	authMiddleware := auth.Middleware{Service: authService}

	catalogService := catalog.NewService(catalogStore, catalog.NewCache(redisClient, cfg.CatalogCacheTTL), logger)
	catalogHandler := catalog.Handler{Service: catalogService, Validate: validate}

	offerService := offer.NewService(offerStore, bus, logger)
	offerHandler := offer.Handler{Service: offerService, Validate: validate}

	registry := cart.NewRegistry()
	cartHandler := cart.Handler{
		Registry: registry,
		Resolver: catalogService,
		Offers:   offerService,
		Options:  pricingOpts,
	}

	receipts := receipt.Enqueuer{Client: asynqClient, Logger: logger}
	orderService := order.NewService(orderStore, offerService, bus, receipts, pricingOpts, logger)
	orderHandler := order.Handler{Service: orderService, Registry: registry, Validate: validate}

	salesService := sales.NewService(orderService, redisClient, cfg.SalesCacheTTL, logger)
	salesHandler := sales.Handler{Service: salesService}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	httpMetrics := obs.NewHTTPMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "thrive"), nil, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", org.HeaderOrgID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:  healthChecker(cfg, pool, redisClient),
		DemoMode: cfg.DemoMode,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	loginLimiter := newLoginLimiter(cfg, redisClient, logger)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/auth", func(a chi.Router) {
			if loginLimiter != nil {
				a.With(loginLimiter.Handler).Post("/login", authHandler.Login)
			} else {
				a.Post("/login", authHandler.Login)
			}
			a.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		v.Route("/pos", func(p chi.Router) {
			p.Use(authMiddleware.RequireAuth)
			p.Use(org.Resolver)

			p.Get("/menu", catalogHandler.Menu)

			p.Group(func(admin chi.Router) {
				admin.Use(auth.RequireRole(auth.RoleAdmin))
				admin.Post("/products", catalogHandler.CreateProduct)
				admin.Put("/products/{id}", catalogHandler.UpdateProduct)
				admin.Delete("/products/{id}", catalogHandler.DeleteProduct)
				admin.Post("/combos", catalogHandler.CreateCombo)
				admin.Put("/combos/{id}", catalogHandler.UpdateCombo)
				admin.Delete("/combos/{id}", catalogHandler.DeleteCombo)

				admin.Get("/offers", offerHandler.List)
				admin.Post("/offers", offerHandler.Create)
				admin.Put("/offers/{id}", offerHandler.Update)
				admin.Delete("/offers/{id}", offerHandler.Delete)
			})

			p.Route("/sessions", func(s chi.Router) {
				s.Post("/", cartHandler.Create)
				s.Route("/{sessionID}", func(sess chi.Router) {
					sess.Get("/", cartHandler.Get)
					sess.Delete("/", cartHandler.Delete)
					sess.Post("/items", cartHandler.AddItem)
					sess.Put("/items", cartHandler.SetQuantity)
					sess.Delete("/items/{kind}/{itemID}", cartHandler.RemoveItem)
					sess.Post("/offers/{offerID}", cartHandler.ToggleOffer)
					sess.Post("/quick-discount", cartHandler.QuickDiscount)
					sess.Post("/clear", cartHandler.Clear)
					sess.Post("/checkout", cartHandler.BeginCheckout)
					sess.Post("/checkout/cancel", cartHandler.CancelCheckout)
					sess.With(idem.Middleware).Post("/checkout/confirm", orderHandler.Checkout)
					sess.Post("/draft", orderHandler.SaveDraft)
					sess.Post("/draft/{draftID}/restore", orderHandler.RestoreDraft)
				})
			})

			p.Get("/drafts", orderHandler.ListDrafts)
			p.Delete("/drafts/{draftID}", orderHandler.DeleteDraft)

			p.Get("/sales", orderHandler.ListSales)
			p.Get("/sales/summary", salesHandler.Daily)
			p.With(auth.RequireRole(auth.RoleAdmin)).Get("/sales/export", salesHandler.ExportCSV)
			p.Get("/sales/{saleID}", orderHandler.GetSale)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Bool("demo", cfg.DemoMode).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// seedDemoStores builds in-memory stores preloaded with a sample cafe so the
// API is usable without Postgres or Redis.
func seedDemoStores(logger zerolog.Logger) (auth.Store, catalog.Store, offer.Store, order.Store, events.Store) {
	orgID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	catalogStore := catalog.NewMemoryStore()
	catalog.SeedDemoMenu(catalogStore, orgID)
	offerStore := offer.NewMemoryStore()
	offer.SeedDemoOffers(offerStore, orgID)

	authStore := auth.NewMemoryStore()
	for _, u := range []struct {
		name, email, role string
	}{
		{"Demo Admin", "admin@thrive.demo", auth.RoleAdmin},
		{"Demo Staff", "staff@thrive.demo", auth.RoleStaff},
	} {
		hash, err := argon2id.CreateHash("demo1234", argon2id.DefaultParams)
		if err != nil {
			logger.Fatal().Err(err).Msg("hash demo password")
		}
		authStore.Put(auth.User{
			ID:           uuid.New(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
			OrgID:        orgID,
			CreatedAt:    time.Now().UTC(),
		})
	}
	logger.Info().Str("org_id", orgID.String()).Msg("demo data seeded; sign in as admin@thrive.demo / demo1234")

	return authStore, catalogStore, offerStore, order.NewMemoryStore(), events.NewMemoryStore()
}

func healthChecker(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client) health.Checker {
	if cfg.DemoMode {
		return nil
	}
	return health.Deps{Pool: pool, Redis: redisClient}
}

func newLoginLimiter(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) *limiterchi.Middleware {
	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		logger.Error().Err(err).Str("rate", cfg.LoginRateLimit).Msg("parse login rate limit")
		return nil
	}
	var store limiter.Store
	if redisClient != nil {
		store, err = limiterredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "ratelimit:login"})
		if err != nil {
			logger.Error().Err(err).Msg("init redis rate limit store")
			store = limitermem.NewStore()
		}
	} else {
		store = limitermem.NewStore()
	}
	return limiterchi.NewMiddleware(limiter.New(store, rate))
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	return mux
}
