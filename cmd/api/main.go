package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/navalhatech/agenda-api/internal/config"
	"github.com/navalhatech/agenda-api/internal/db"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/routes"
)

func main() {
	cfg := config.Load()

	database := db.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupRoutes(r, database, rdb, cfg)

	log.Printf("API listening on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
