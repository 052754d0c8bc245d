package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/database"
	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/router"
	"github.com/shopmesh/storefront-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.DatabaseFor("order"), &models.Order{}, &models.OrderItem{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rc := client.New(cfg.Registry.URL, time.Duration(cfg.Registry.ClientTimeout)*time.Second)
	r := router.NewOrderRouter(db, cfg, rc)

	server.RegisterService(cfg, "order", cfg.Services.OrderURL, map[string]string{
		"getOrders": "/api/orders",
	})

	server.Run(cfg, "order-service", cfg.Services.OrderPort, r)
}
