package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Padi142/beer-guesser/internal/domain"
	"github.com/Padi142/beer-guesser/internal/service"
)

type Handler struct {
	images   service.ImageService
	describe service.DescribeService
	guess    service.GuessService
	password string
	log      *zap.Logger
}

func NewHandler(images service.ImageService, describe service.DescribeService, guess service.GuessService, uploadPassword string, log *zap.Logger) *Handler {
	return &Handler{
		images:   images,
		describe: describe,
		guess:    guess,
		password: uploadPassword,
		log:      log,
	}
}

func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.images.ListImages(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	var req domain.DeleteImageRequest
	// A missing or unreadable body leaves the key empty, which fails
	// the prefix check below.
	_ = c.ShouldBindJSON(&req)

	if err := h.images.DeleteImage(c.Request.Context(), req.Key); err != nil {
		if errors.Is(err, domain.ErrInvalidKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key"})
			return
		}
		h.log.Error("Failed to delete image", zap.String("key", req.Key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) CreateUpload(c *gin.Context) {
	var req domain.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileName is required"})
		return
	}

	ticket, err := h.images.CreateUploadTicket(c.Request.Context(), req.FileName)
	if err != nil {
		h.log.Error("Failed to create upload ticket", zap.String("fileName", req.FileName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload"})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) DescribeImage(c *gin.Context) {
	var req domain.DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl is required"})
		return
	}

	model, err := domain.ResolveDescriptionModel(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported description model"})
		return
	}

	description, err := h.describe.Describe(c.Request.Context(), req.ImageURL, model)
	if err != nil {
		h.log.Error("Failed to generate description", zap.String("model", string(model)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate description"})
		return
	}

	c.JSON(http.StatusOK, domain.DescribeResponse{Description: description})
}

func (h *Handler) GuessBrand(c *gin.Context) {
	var req domain.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required"})
		return
	}

	if len(req.AllowedBrands) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one allowed brand is required"})
		return
	}

	model, err := domain.ResolveGuessModel(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported guess model"})
		return
	}

	result, err := h.guess.Guess(c.Request.Context(), req.Description, req.AllowedBrands, model)
	if err != nil {
		h.log.Error("Failed to guess brand", zap.String("model", string(model)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to guess beer"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
