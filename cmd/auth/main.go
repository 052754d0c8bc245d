package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/database"
	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/router"
	"github.com/shopmesh/storefront-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.DatabaseFor("auth"), &models.User{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.NewAuthRouter(db, cfg)

	server.RegisterService(cfg, "auth", cfg.Services.AuthURL, map[string]string{
		"validateToken": "/api/auth/validate-token",
		"getUserInfo":   "/api/auth/user",
	})

	server.Run(cfg, "auth-service", cfg.Services.AuthPort, r)
}
