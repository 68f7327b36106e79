package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/service/auth"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	apiVersion  = "1.0.0"
	swaggerFile = "travel.swagger.json"
)

type Services struct {
	Catalog  catalog.CatalogUseCase
	Bookings booking.BookingUseCase
	Auth     auth.AuthUseCase
	Tokens   TokenVerifier
}

func NewRouter(cfg config.HTTPConfig, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), gin.Logger(), ErrorLogger())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Travel Booking API",
			"version": apiVersion,
			"docs":    "/docs/index.html",
		})
	})

	requireAuth := RequireAuth(svc.Tokens)

	NewUserHandler(svc.Auth).Register(router.Group(""), requireAuth)
	NewTravelOptionHandler(svc.Catalog).Register(router.Group("/travel-options"), requireAuth)
	NewBookingHandler(svc.Bookings).Register(router.Group("/bookings", requireAuth))

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/"+swaggerFile))))
	}

	return router
}

// corsConfig allows any origin without credentials unless an explicit list is
// configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", headerRequestID},
		ExposeHeaders: []string{"Content-Length", headerRequestID},
		MaxAge:        12 * time.Hour,
	}

	var explicit []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			explicit = append(explicit, o)
		}
	}
	if len(explicit) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = explicit
	cfg.AllowCredentials = true
	return cfg
}
