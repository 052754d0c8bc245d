package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
)

// RegisterService announces a service to the registry before it starts
// listening. The registry seeds default records for every service, so
// a failed registration is logged and survived.
func RegisterService(cfg *config.Config, name, url string, endpoints map[string]string) {
	rc := client.New(cfg.Registry.URL, time.Duration(cfg.Registry.ClientTimeout)*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.RegisterSelf(ctx, name, url, endpoints); err != nil {
		logrus.WithError(err).WithField("service", name).Warn("Service registration failed")
	}
}

// Run serves the engine on the given port and blocks until SIGINT or
// SIGTERM, then drains in-flight requests for up to 30 seconds.
func Run(cfg *config.Config, name, port string, engine *gin.Engine) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"service": name,
			"port":    port,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.WithField("service", name).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.WithField("service", name).Info("Server exited")
}
