package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/inventario-golang/internal/inventory"
	"github.com/gin-gonic/gin"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Inventory *inventory.Service

	// UploadDir holds item pictures, served below PublicURL + "/uploads".
	UploadDir string
	PublicURL string
}

// respondError maps an operation error to a status code. None of these
// failures end the session: the client can fix the input and resubmit.
func respondError(c *gin.Context, err error) {
	var dup *inventory.DuplicateError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "An item with the same description and location already exists. Change one of them to avoid duplicates.",
			"duplicates": dup.Groups,
		})
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case inventory.IsReadFailure(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read the inventory, nothing was changed", "detail": err.Error()})
	case inventory.IsWriteFailure(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not save the inventory", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// warningOf renders a non-fatal read failure for a response body.
func warningOf(err error) interface{} {
	if err == nil {
		return nil
	}
	return "Could not read the inventory: " + err.Error()
}

// WarningHeader carries the read warning on responses that have no JSON
// body to put it in, such as CSV downloads.
const WarningHeader = "X-Inventory-Warning"

func setWarningHeader(c *gin.Context, err error) {
	if err == nil {
		return
	}
	// Header values must stay on one line.
	c.Header(WarningHeader, strings.Join(strings.Fields(warningOf(err).(string)), " "))
}
