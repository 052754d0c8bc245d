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

	db, err := database.Initialize(cfg.DatabaseFor("user"), &models.UserProfile{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rc := client.New(cfg.Registry.URL, time.Duration(cfg.Registry.ClientTimeout)*time.Second)
	r := router.NewUserRouter(db, cfg, rc)

	server.RegisterService(cfg, "user", cfg.Services.UserURL, map[string]string{
		"getUser": "/api/users",
	})

	server.Run(cfg, "user-service", cfg.Services.UserPort, r)
}
