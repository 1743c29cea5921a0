// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concesionaria-api/config"
	"concesionaria-api/controllers"
	"concesionaria-api/middleware"
)

// Services are the collaborators the HTTP layer is built on.
type Services struct {
	Cars   controllers.CarLifecycle
	Mailer controllers.ContactMailer
}

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.ErrorHandler(logger),
	)
	SetupRoutes(r, cfg, svc, logger)
	return r
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, svc Services, logger *zap.Logger) {
	carController := controllers.NewCarController(svc.Cars, logger)
	contactController := controllers.NewContactController(svc.Mailer, logger)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
			"version": cfg.Version,
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/ping")
	})

	r.Static(cfg.StaticURL, cfg.StaticDir)

	cars := r.Group("/cars")
	cars.Use(middleware.ValidateJSON())
	{
		cars.GET("", carController.GetCars)
		cars.POST("", carController.CreateCar)
		cars.GET("/:id", carController.GetCar)
		cars.PUT("/:id", carController.UpdateCar)
		cars.PATCH("/:id", carController.UpdateCar)
		cars.DELETE("/:id", carController.DeleteCar)
	}

	r.POST("/contact",
		middleware.RateLimit(cfg.ContactRatePerMinute, cfg.ContactRateBurst),
		middleware.ValidateJSON(),
		contactController.SendContact,
	)
}
