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
	"github.com/shopmesh/storefront-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.DatabaseFor("product"), &models.Product{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rc := client.New(cfg.Registry.URL, time.Duration(cfg.Registry.ClientTimeout)*time.Second)
	r := router.NewProductRouter(db, cfg, rc, storage)

	server.RegisterService(cfg, "product", cfg.Services.ProductURL, map[string]string{
		"getProducts": "/api/products",
	})

	server.Run(cfg, "product-service", cfg.Services.ProductPort, r)
}
