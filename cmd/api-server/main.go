package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"reviewhub/database"
	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"
	"reviewhub/internal/logger"
	"reviewhub/internal/mailer"
	"reviewhub/internal/metrics"
	"reviewhub/internal/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logg := logger.New(cfg)

	db, err := database.Connect(cfg, logg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Email transport: log-only unless SMTP is configured.
	var mail mailer.Mailer
	if cfg.EmailEnabled() {
		smtp, err := mailer.NewSMTP(cfg)
		if err != nil {
			log.Fatalf("could not set up mailer: %v", err)
		}
		mail = smtp
	} else {
		logg.Warn("SMTP not configured, confirmation codes will not be delivered")
		mail = &mailer.LogMailer{Logger: logg}
	}

	// Services
	authService := service.NewAuthService(userRepo, mail, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	// Auth endpoint throttling: shared redis window when configured,
	// per-process token buckets otherwise.
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(opts), cfg.AuthRatePerMinute)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logg))

	if cfg.PrometheusEnabled {
		metrics.Init()
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authOptional := middleware.AuthenticateOptional(authService)
	authRequired := middleware.Authenticate(authService)

	v1 := r.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(v1, middleware.RateLimit(limiter, logg))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1, authOptional)
	handler.NewGenreHandler(genreService).RegisterRoutes(v1, authOptional)
	handler.NewTitleHandler(titleService).RegisterRoutes(v1, authOptional)
	handler.NewReviewHandler(reviewService).RegisterRoutes(v1, authOptional)
	handler.NewCommentHandler(commentService).RegisterRoutes(v1, authOptional)
	handler.NewUserHandler(userService).RegisterRoutes(v1, authRequired)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logg.Info("starting api server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
