package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/latency-dashboard/internal/chart"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/evaluator"
	"github.com/OldStager01/latency-dashboard/internal/logger"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, evaluator.ErrUnknownServer), errors.Is(err, chart.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, dataset.ErrParse), errors.Is(err, dataset.ErrFormat), errors.Is(err, dataset.ErrNoHeader):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorCtxf(c.Request.Context(), "Request failed: %v", err)
		c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
