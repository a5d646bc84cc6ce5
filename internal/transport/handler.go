package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/inventory"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/logger"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/service"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// MetricsSource exposes aggregated pipeline counters.
type MetricsSource interface {
	GetMetrics() map[string]interface{}
}

func NewHandler(svc service.ClassificationService, metrics MetricsSource, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/classify", classifyURL(svc, cfg))
	r.POST("/classify/upload", classifyUpload(svc, cfg))
	r.GET("/inventory", latestInventory(filepath.Join(cfg.ReportPath(), inventory.JSONFile)))
	r.GET("/metrics", metricsSnapshot(metrics))

	return r
}

func classifyURL(svc service.ClassificationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing classification request")

		var req models.ClassifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		report, err := svc.ClassifyURL(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
				err = apperrors.NewTimeoutError("image fetch timeout", err)
			}
			respondError(c, apperrors.GetStatusCode(err), "classification failed", err)
			return
		}

		logCompleted(report, time.Since(startTime))
		c.JSON(http.StatusOK, report)
	}
}

func classifyUpload(svc service.ClassificationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		header, err := c.FormFile("file")
		if err != nil {
			respondError(c, http.StatusBadRequest, "missing multipart field \"file\"", err)
			return
		}

		f, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "cannot read upload", err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			respondError(c, http.StatusBadRequest, "cannot read upload", err)
			return
		}

		report, err := svc.ClassifyUpload(ctx, header.Filename, c.PostForm("industry"), data)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "classification failed", err)
			return
		}

		logCompleted(report, time.Since(startTime))
		c.JSON(http.StatusOK, report)
	}
}

func latestInventory(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, err := inventory.Load(path)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "inventory unavailable", err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

func metricsSnapshot(m MetricsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, m.GetMetrics())
	}
}

func logCompleted(report *models.AssetReport, d time.Duration) {
	logger.WithFields(logrus.Fields{
		"path":               report.Path,
		"category":           report.Classification.Category,
		"content_type":       report.Classification.ContentType,
		"warnings":           len(report.Warnings),
		"processing_time_ms": d.Milliseconds(),
	}).Info("Classification completed")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "available",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
