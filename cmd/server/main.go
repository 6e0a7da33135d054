package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicepro/server/internal/api"
	"github.com/invoicepro/server/internal/config"
	"github.com/invoicepro/server/internal/logger"
	"github.com/invoicepro/server/internal/mail"
	"github.com/invoicepro/server/internal/repository"
	"github.com/invoicepro/server/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Outbound mail relay
	mailer := mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Password)

	// Create service
	svc := service.NewDefaultService(repo, mailer, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", serverAddr).Msg("starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
