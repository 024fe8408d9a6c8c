package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/model"
	"github.com/aspirebot/crypto-advisor/internal/validation"
)

const maxBodyBytes = 64 << 10

// Recommender produces both recommendations for a validated request.
type Recommender interface {
	Recommend(ctx context.Context, req *model.RecommendationRequest) (*model.RecommendationResponse, error)
}

// RecommendHandler serves POST /recommend.
type RecommendHandler struct {
	validator   *validation.RequestValidator
	recommender Recommender
	logger      *zap.Logger
}

func NewRecommendHandler(validator *validation.RequestValidator, recommender Recommender, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{
		validator:   validator,
		recommender: recommender,
		logger:      logger,
	}
}

// Recommend validates the body, runs the pipeline and returns both texts.
// Route: POST /recommend
func (h *RecommendHandler) Recommend(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		writeError(c, h.logger, apperror.Validation(fmt.Errorf("reading body: %w", err)))
		return
	}
	if len(body) > maxBodyBytes {
		writeError(c, h.logger, apperror.Validation(fmt.Errorf("body exceeds %d bytes", maxBodyBytes)))
		return
	}

	req, ignored, err := h.validator.Decode(body)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if len(ignored) > 0 {
		h.logger.Debug("ignoring request fields", zap.Strings("fields", ignored))
	}

	resp, err := h.recommender.Recommend(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
