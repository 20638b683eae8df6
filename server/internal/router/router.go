// server/internal/router/router.go
package router

import (
	"net/http"
	"time"

	"fhfa-go/server/internal/config"
	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", time.Until(info.ResetTime).Round(time.Second).String())
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

// Setup builds the JSON API around store.
func Setup(log *zap.Logger, store *engine.Store, conf config.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		SSLRedirect:           conf.SSLRedirect,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	rate := conf.ClassifyWindow
	if rate <= 0 {
		rate = time.Minute
	}
	limit := conf.ClassifyRate
	if limit == 0 {
		limit = 10
	}
	limiter := ratelimit.RateLimiter(ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	}), &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	sessionHandler := handlers.NewSessionHandler(log, store)
	statementHandler := handlers.NewStatementHandler(log, store)
	timerHandler := handlers.NewTimerHandler(log, store)
	reportHandler := handlers.NewReportHandler(log, store)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": store.Len()})
	})

	api := router.Group("/api")
	{
		api.POST("/sessions", sessionHandler.Create)
		api.GET("/reports", reportHandler.Archived)

		sessionRoutes := api.Group("/sessions/:id")
		{
			sessionRoutes.GET("", sessionHandler.Get)
			sessionRoutes.DELETE("", sessionHandler.Delete)
			sessionRoutes.POST("/intake", sessionHandler.Intake)
			sessionRoutes.GET("/timers", timerHandler.List)
			sessionRoutes.GET("/score", reportHandler.Score)
			sessionRoutes.GET("/report", reportHandler.Report)

			statementRoutes := sessionRoutes.Group("/statements")
			{
				statementRoutes.POST("", statementHandler.Add)
				statementRoutes.DELETE("/:sid", statementHandler.Remove)
				statementRoutes.PUT("/:sid/context", statementHandler.SetContext)
				statementRoutes.PUT("/:sid/precursors/:condition", statementHandler.SetPrecursors)
				statementRoutes.POST("/:sid/timers/:condition/:action", timerHandler.Action)
				statementRoutes.POST("/:sid/classify", limiter, statementHandler.Classify)
			}
		}
	}

	return router
}
