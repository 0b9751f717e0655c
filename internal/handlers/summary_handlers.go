package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/01moynul/inventario-golang/internal/inventory"
	"github.com/01moynul/inventario-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

//
// --- Report by Similar ID ---
//

// GetSummary is the handler for GET /v1/summary
// ?top=N additionally returns the N groups with the most stock (chart data).
func (h *Handlers) GetSummary(c *gin.Context) {
	// 1. --- Load Snapshot ---
	records, loadErr := h.Inventory.Snapshot(c.Request.Context())

	// 2. --- Aggregate ---
	summary := inventory.Summarize(records, h.Inventory.Settings().Normalize)

	resp := gin.H{
		"groups":  summary,
		"warning": warningOf(loadErr),
	}

	// 3. --- Optional Top N ---
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a positive integer"})
			return
		}
		resp["top"] = inventory.TopGroups(summary, n)
	}

	c.JSON(http.StatusOK, resp)
}

// GetSummaryDetail is the handler for GET /v1/summary/:key
func (h *Handlers) GetSummaryDetail(c *gin.Context) {
	key := c.Param("key")

	records, loadErr := h.Inventory.Snapshot(c.Request.Context())
	items := inventory.GroupDetail(records, key, h.Inventory.Settings().Normalize)
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found", "warning": warningOf(loadErr)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"similarId": key,
		"items":     items,
	})
}

//
// --- CSV Export ---
//

// ExportItems is the handler for GET /v1/export/items.csv
// ?columns=ID,Descripción (or repeated) selects the exported columns.
func (h *Handlers) ExportItems(c *gin.Context) {
	// 1. --- Validate Column Selection ---
	columns, err := inventory.ParseColumns(c.QueryArray("columns"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Load & Render ---
	records, loadErr := h.Inventory.Snapshot(c.Request.Context())
	setWarningHeader(c, loadErr)
	var buf bytes.Buffer
	if err := inventory.WriteCSV(&buf, records, columns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render CSV"})
		return
	}

	sendCSV(c, "inventario.csv", buf.Bytes())
}

// ExportSummary is the handler for GET /v1/export/summary.csv
func (h *Handlers) ExportSummary(c *gin.Context) {
	records, loadErr := h.Inventory.Snapshot(c.Request.Context())
	setWarningHeader(c, loadErr)
	summary := inventory.Summarize(records, h.Inventory.Settings().Normalize)

	var buf bytes.Buffer
	if err := inventory.WriteSummaryCSV(&buf, summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render CSV"})
		return
	}

	sendCSV(c, "resumen_por_id_similar.csv", buf.Bytes())
}

// ExportSummaryDetail is the handler for GET /v1/export/summary/:key
func (h *Handlers) ExportSummaryDetail(c *gin.Context) {
	key := c.Param("key")

	records, loadErr := h.Inventory.Snapshot(c.Request.Context())
	setWarningHeader(c, loadErr)
	items := inventory.GroupDetail(records, key, h.Inventory.Settings().Normalize)
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var buf bytes.Buffer
	if err := inventory.WriteCSV(&buf, items, models.Columns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render CSV"})
		return
	}

	sendCSV(c, "detalle-"+slug.Make(key)+".csv", buf.Bytes())
}

func sendCSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
