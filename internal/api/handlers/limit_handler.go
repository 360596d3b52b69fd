package handlers

import (
	"net/http"

	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/gin-gonic/gin"
)

type LimitHandler struct {
	limitService *service.LimitService
}

func NewLimitHandler(limitService *service.LimitService) *LimitHandler {
	return &LimitHandler{limitService: limitService}
}

type limitBoundsRequest struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Get returns the current limit policy.
func (h *LimitHandler) Get(c *gin.Context) {
	policy, err := h.limitService.Policy(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// SetDefault replaces the global default bounds.
func (h *LimitHandler) SetDefault(c *gin.Context) {
	var req limitBoundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ValidationError{Field: "body", Reason: "expected JSON {min, max}"})
		return
	}
	policy, err := h.limitService.SetDefault(c.Request.Context(), req.Min, req.Max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// SetSKU upserts a per-SKU override.
func (h *LimitHandler) SetSKU(c *gin.Context) {
	var req limitBoundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ValidationError{Field: "body", Reason: "expected JSON {min, max}"})
		return
	}
	policy, err := h.limitService.SetSKU(c.Request.Context(), pathParam(c, "sku"), req.Min, req.Max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// DeleteSKU removes a per-SKU override. Deleting an absent override is a
// no-op success.
func (h *LimitHandler) DeleteSKU(c *gin.Context) {
	policy, err := h.limitService.DeleteSKU(c.Request.Context(), pathParam(c, "sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}
