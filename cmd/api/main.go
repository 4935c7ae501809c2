package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonspace/booking-api/internal/config"
	dbpkg "github.com/salonspace/booking-api/internal/db"
	"github.com/salonspace/booking-api/internal/logging"
	"github.com/salonspace/booking-api/internal/metrics"
	"github.com/salonspace/booking-api/internal/middleware"
	"github.com/salonspace/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg)

	db := dbpkg.New(cfg, log)

	metrics.Register()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
