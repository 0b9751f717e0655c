package handlers

import (
	"net/http"

	"github.com/01moynul/inventario-golang/internal/inventory"
	"github.com/gin-gonic/gin"
)

// GetSettings is the handler for GET /v1/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":    h.Inventory.Settings(),
		"backend":     h.Inventory.Backend().String(),
		"refreshedAt": h.Inventory.RefreshedAt(),
	})
}

// UpdateSettings is the handler for PATCH /v1/settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Build Patch ---
	patch := inventory.SettingsPatch{
		Trim:                input.Trim,
		AllowDeleteFiltered: input.AllowDeleteFiltered,
		RefreshSeconds:      input.RefreshSeconds,
		BaseURL:             input.BaseURL,
	}
	if input.Case != nil {
		mode, ok := inventory.ParseCaseMode(*input.Case)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "case must be one of unchanged, upper, lower"})
			return
		}
		patch.Case = &mode
	}

	// 3. --- Apply & Respond ---
	settings := h.Inventory.UpdateSettings(patch)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// Refresh is the handler for POST /v1/refresh
// It re-reads the backend so changes made by other sessions become visible.
func (h *Handlers) Refresh(c *gin.Context) {
	records, err := h.Inventory.Refresh(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory reloaded",
		"count":   len(records),
		"warning": warningOf(err),
	})
}
