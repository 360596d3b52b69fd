package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps domain errors onto HTTP status codes. Anything
// unclassified is a 500 with the detail kept server-side.
func respondError(c *gin.Context, err error) {
	var (
		validationErr domain.ValidationError
		notFoundErr   domain.NotFoundError
		stockErr      domain.InsufficientStockError
		emptyErr      domain.EmptyLedgerError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
	case errors.As(err, &emptyErr):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": emptyErr.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pathParam returns a route parameter with percent-encoding undone. Line
// ids carry pipe characters, so clients send them URL-encoded.
func pathParam(c *gin.Context, name string) string {
	raw := c.Param(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}
