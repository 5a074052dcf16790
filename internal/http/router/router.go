package router

import (
	"net/http"
	"time"

	apphttp "invoice_pdf_service/internal/http"
	"invoice_pdf_service/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the gin engine: global middleware, the health probe and every
// module's routes.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg)))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := engine.Group("")
	root.Use(httpkit.BodyLimit(cfg.GetMaxBodyBytes()))
	if rps := cfg.GetRateLimitRPS(); rps > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), cfg.GetRateLimitBurst(), app.Logger)
		root.Use(limiter.RateLimit())
	}

	rctx := &apphttp.RouterContext{
		Engine: engine,
		Root:   root,
		Config: cfg,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(rctx)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}
