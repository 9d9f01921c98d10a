package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/bassista/go_storefront/internal/facade"
	"github.com/bassista/go_storefront/internal/logger"
)

// respondError maps facade errors to HTTP responses.
func respondError(c *gin.Context, component, action string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		logger.WithComponent(component).Debugf("%s: validation failed: %v", action, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrors(verrs)})
	case errors.Is(err, facade.ErrInvalid):
		logger.WithComponent(component).Debugf("%s: invalid record: %v", action, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, facade.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, facade.ErrCorruptCache):
		logger.WithComponent(component).Errorf("%s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		logger.WithComponent(component).Warnf("%s: timed out: %v", action, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
	default:
		logger.WithComponent(component).Errorf("%s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "imageref":
		return "must be a root-relative path (/images/x.jpg) or an http(s) URL"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
