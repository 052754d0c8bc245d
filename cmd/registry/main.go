package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/router"
	"github.com/shopmesh/storefront-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.NewRegistryRouter(cfg)

	server.Run(cfg, "service-registry", cfg.Registry.Port, r)
}
