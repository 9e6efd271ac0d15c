package apiroutes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vuzon/vuzon/api"
	restinterceptors "github.com/vuzon/vuzon/api/interceptors"
	"github.com/vuzon/vuzon/config"
	"github.com/vuzon/vuzon/metrics"
	"github.com/vuzon/vuzon/services"
)

// REST API routes
func ConfigRoutes(router *gin.Engine, conf config.Config, cloudflareService *services.CloudflareService, sessions *services.SessionService) *gin.Engine {
	// init metrics
	if conf.Metrics.Enabled {
		metrics.InitMetrics()

		authorized := router.Group("/metrics", gin.BasicAuth(gin.Accounts{
			conf.Metrics.Username: conf.Metrics.Password,
		}))

		authorized.GET("", gin.WrapH(promhttp.Handler()))
	}

	if len(conf.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     conf.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// API definitions
	authApi := api.NewAuthApi(conf, sessions)
	addressesApi := api.NewAddressesApi(cloudflareService)
	rulesApi := api.NewRulesApi(cloudflareService, conf.RootDomain)

	// PUBLIC API
	publicApi := router.Group("/api", metrics.MetricsMiddleware())
	{
		publicApi.POST("/login", authApi.Login)
		publicApi.POST("/logout", authApi.Logout)
	}

	// PROTECTED API
	rootApi := router.Group("/api", metrics.MetricsMiddleware(), restinterceptors.SessionMiddleware(conf, sessions))
	{
		rootApi.GET("/me", authApi.Me)
		rootApi.GET("/addresses", addressesApi.List)
		rootApi.POST("/addresses", addressesApi.Create)
		rootApi.DELETE("/addresses/:id", addressesApi.Delete)
		rootApi.GET("/rules", rulesApi.List)
		rootApi.POST("/rules", rulesApi.Create)
		rootApi.POST("/rules/:id/enable", rulesApi.Enable)
		rootApi.POST("/rules/:id/disable", rulesApi.Disable)
		rootApi.DELETE("/rules/:id", rulesApi.Delete)
	}

	// static front-end: login page and assets are public, the panel itself
	// sits behind the session gate
	router.Static("/css", "./public/css")
	router.Static("/js", "./public/js")
	router.StaticFile("/login.html", "./public/login.html")
	router.GET("/", restinterceptors.SessionMiddleware(conf, sessions), func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.File("./public/index.html")
	})

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
