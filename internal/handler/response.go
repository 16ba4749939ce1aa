package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/internal/pagination"
	"github.com/videotube/videotube-api/internal/service"
	"github.com/videotube/videotube-api/pkg/logger"
)

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.NewResponse(status, data, message))
}

func respondWithMeta(c *gin.Context, status int, data any, meta any, message string) {
	c.JSON(status, models.NewResponse(status, data, message).WithMeta(meta))
}

func badRequest(c *gin.Context, message string, err error) {
	logger.Log.Warn("Invalid request",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, message, err.Error()))
}

// bindJSON decodes the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid request payload", err)
		return false
	}
	return true
}

// pageQuery reads page, limit and sort from the query string.
func pageQuery(c *gin.Context) (service.PageQuery, bool) {
	page, limit, err := pagination.ParseQuery(c.Query("page"), c.Query("limit"))
	if err != nil {
		badRequest(c, "Invalid pagination parameters", err)
		return service.PageQuery{}, false
	}
	return service.PageQuery{Page: page, Limit: limit, Sort: c.Query("sort")}, true
}

func handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "An unexpected error occurred"

	switch err.(type) {
	case *service.ValidationError:
		status, message = http.StatusBadRequest, err.Error()
	case *service.NotFoundError:
		status, message = http.StatusNotFound, err.Error()
	case *service.UnauthorizedError:
		status, message = http.StatusUnauthorized, err.Error()
	case *service.ForbiddenError:
		status, message = http.StatusForbidden, err.Error()
	case *service.ConflictError:
		status, message = http.StatusConflict, err.Error()
	case *service.ProcessingError:
		message = "Failed to process request"
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
	}
	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed", fields...)
	} else {
		logger.Log.Warn("Request rejected", fields...)
	}

	c.JSON(status, models.NewErrorResponse(status, message))
}
