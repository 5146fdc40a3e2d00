package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Padi142/beer-guesser/internal/config"
	"github.com/Padi142/beer-guesser/internal/handler"
	"github.com/Padi142/beer-guesser/internal/llm"
	"github.com/Padi142/beer-guesser/internal/repository"
	"github.com/Padi142/beer-guesser/internal/service"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	pinferenceBaseURL = "https://api.pinference.ai/api/v1"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(log))

	s3Repo, err := repository.NewS3Repository(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 repository: %w", err)
	}

	visionClient := llm.New(openRouterBaseURL, cfg.LLM.OpenRouterKey, nil)
	textClient := llm.New(pinferenceBaseURL, cfg.LLM.PinferenceAPIKey, map[string]string{
		"X-Prime-Team-ID": cfg.LLM.PinferenceTeamID,
	})

	imageService := service.NewImageService(s3Repo, log)
	describeService := service.NewDescribeService(visionClient, log)
	guessService := service.NewGuessService(textClient, log)

	h := handler.NewHandler(imageService, describeService, guessService, cfg.App.UploadPassword, log)

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/images", h.ListImages)
		api.DELETE("/images", h.RequireUploadPassword(), h.DeleteImage)
		api.POST("/upload", h.RequireUploadPassword(), h.CreateUpload)
		api.POST("/describe", h.DescribeImage)
		api.POST("/guess", h.GuessBrand)
	}

	server := &Server{
		// No write timeout: describe and guess wait on the completion
		// service for as long as it takes.
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    10 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
