package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/internal/domain/dto"
	"github.com/guttosm/giga-bot/internal/i18n"
	"github.com/guttosm/giga-bot/internal/logger"
)

// ErrorHandler returns a middleware that handles gin context errors.
// Errors typed gin.ErrorTypeBind become 400 responses, everything else a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)
		locale := i18n.GetLocale(c)

		log := logger.Logger()
		log.Error().
			Str("request_id", requestID).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}

		status, code, key := http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
		if err.IsType(gin.ErrorTypeBind) {
			status, code, key = http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest
		}
		message := i18n.GetTranslator().Translate(key, locale)
		c.JSON(status, dto.NewError(code, message).WithRequestID(requestID))
	}
}

// NotFound answers unknown routes with the standard error body.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		message := i18n.GetTranslator().Translate(i18n.ErrKeyNotFound, i18n.GetLocale(c))
		c.JSON(http.StatusNotFound, dto.NewError(dto.ErrCodeNotFound, message).WithRequestID(GetRequestID(c)))
	}
}
