package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/requestid"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error  string                `json:"error"`
	Code   apperror.Kind         `json:"code"`
	Fields []apperror.FieldError `json:"fields,omitempty"`
}

// writeError maps err to a status and a caller-safe body. The full error only
// goes to the log.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	resp := errorResponse{
		Error: apperror.PublicMessage(kind),
		Code:  kind,
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		resp.Fields = appErr.Fields
	}

	fields := []zap.Field{
		zap.String("request_id", requestid.From(c.Request.Context())),
		zap.String("kind", string(kind)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= 500 {
		logger.Error("request failed", fields...)
	} else {
		logger.Info("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, resp)
}
