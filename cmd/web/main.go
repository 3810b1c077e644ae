package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/super-blog/internal/config"
	"github.com/Dan9191/super-blog/internal/digest"
	"github.com/Dan9191/super-blog/internal/handler"
	"github.com/Dan9191/super-blog/internal/integrations/blogapi"
	"github.com/Dan9191/super-blog/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize layers
	api := blogapi.NewClient(blogapi.BaseURL, logger)
	view := service.NewView(api, logger)
	h, err := handler.NewHandler(view, logger)
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	scheduler, err := digest.NewScheduler(cfg, api, digest.NewSender(cfg, logger), logger)
	if err != nil {
		logger.Fatalf("Failed to schedule digest: %v", err)
	}
	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	h.Register(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}()

	logger.Infof("Starting server on %s (backend %s)", addr, blogapi.BaseURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
