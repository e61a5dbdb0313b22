package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mestoapp/mesto/internal/auth"
	"github.com/mestoapp/mesto/internal/cache"
	"github.com/mestoapp/mesto/internal/config"
	"github.com/mestoapp/mesto/internal/http/handlers"
	"github.com/mestoapp/mesto/internal/http/middlewares"
	"github.com/mestoapp/mesto/internal/observability"
	"github.com/mestoapp/mesto/internal/repo/postgres"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(pool *pgxpool.Pool, feed *cache.FeedCache, prom *observability.Prom, metrics prometheus.Gatherer, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("mesto-api"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.ErrorHandler())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	// wire up repositories and handlers
	sessions := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	usersRepo := postgres.NewUsersRepo(pool, prom)
	cardsRepo := postgres.NewCardsRepo(pool, prom)

	usersHandler := handlers.NewUsersHandler(usersRepo, sessions, cfg)
	cardsHandler := handlers.NewCardsHandler(cardsRepo, feed)

	// public routes, rate limited against credential stuffing
	limiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	r.POST("/signup", limiter.Middleware(middlewares.KeyByIP), usersHandler.SignUp)
	r.POST("/signin", limiter.Middleware(middlewares.KeyByIP), usersHandler.SignIn)

	// everything else requires a session
	authmw := middlewares.NewAuthMiddleware(sessions)
	protected := r.Group("", authmw.RequireAuth())

	protected.GET("/users", usersHandler.List)
	protected.GET("/users/me", usersHandler.Me)
	protected.GET("/users/:userId", usersHandler.GetByID)
	protected.PATCH("/users/me", usersHandler.UpdateProfile)
	protected.PATCH("/users/me/avatar", usersHandler.UpdateAvatar)

	protected.GET("/cards", cardsHandler.List)
	protected.POST("/cards", cardsHandler.Create)
	protected.DELETE("/cards/:cardId", cardsHandler.Delete)
	protected.PUT("/cards/:cardId/likes", cardsHandler.Like)
	protected.PATCH("/cards/:cardId/likes", cardsHandler.Like)
	protected.DELETE("/cards/:cardId/likes", cardsHandler.Dislike)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Requested resource not found"})
	})

	return r
}
