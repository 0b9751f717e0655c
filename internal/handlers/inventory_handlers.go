package handlers

import (
	"net/http"

	"github.com/01moynul/inventario-golang/internal/inventory"
	"github.com/gin-gonic/gin"
)

//
// --- Inventory Item Handlers ---
//

// filterFromQuery reads ?q=, ?location= (repeatable) and ?id=. A deep link
// carrying only ?id= pre-fills the text search with that id.
func filterFromQuery(c *gin.Context) inventory.Filter {
	q := c.Query("q")
	if q == "" {
		q = c.Query("id")
	}
	return inventory.Filter{
		Query:     q,
		Locations: c.QueryArray("location"),
	}
}

// ListItems is the handler for GET /v1/items
func (h *Handlers) ListItems(c *gin.Context) {
	// 1. --- Load Snapshot ---
	records, loadErr := h.Inventory.Snapshot(c.Request.Context())

	// 2. --- Apply Display Filter ---
	filter := filterFromQuery(c)
	view := filter.Apply(records)

	// 3. --- Send Response ---
	c.JSON(http.StatusOK, gin.H{
		"items":         view,
		"total":         len(records),
		"filter":        filter,
		"filtered":      filter.Active(),
		"deleteAllowed": inventory.DeleteAllowed(filter, h.Inventory.Settings().AllowDeleteFiltered),
		"backend":       h.Inventory.Backend().String(),
		"warning":       warningOf(loadErr),
	})
}

// CreateItem is the handler for POST /v1/items
func (h *Handlers) CreateItem(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Duplicate Check, ID Assignment & Save ---
	item, err := h.Inventory.AddItem(c.Request.Context(), input.candidate())
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added: " + item.ID,
		"item":    item,
	})
}

// EditItems is the handler for PUT /v1/items
// It merges an edited (possibly filtered) table view back into the inventory.
func (h *Handlers) EditItems(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input EditItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Reconcile & Save ---
	res, err := h.Inventory.ApplyEdits(c.Request.Context(), toRecords(input.Edited), toRecords(input.Original), input.Filter)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. --- Send Response ---
	message := "No changes"
	if res.Changed {
		message = "Changes saved"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"changed": res.Changed,
		"removed": res.Removed,
		"items":   input.Filter.Apply(res.Records),
	})
}

// UpdateItem is the handler for PUT /v1/items/:id
func (h *Handlers) UpdateItem(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Execute Update ---
	rec := RecordInput{ID: c.Param("id"), ItemInput: input}.record()
	item, err := h.Inventory.UpdateItem(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. --- Send Response ---
	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item updated successfully",
		"item":    item,
	})
}

// DeleteItem is the handler for DELETE /v1/items/:id
func (h *Handlers) DeleteItem(c *gin.Context) {
	itemID := c.Param("id")

	if err := h.Inventory.DeleteItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// GetItemQR is the handler for GET /v1/items/:id/qr
// The image itself is rendered by the external chart service.
func (h *Handlers) GetItemQR(c *gin.Context) {
	itemID := c.Param("id")

	records, loadErr := h.Inventory.Snapshot(c.Request.Context())
	found := false
	for _, r := range records {
		if r.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "warning": warningOf(loadErr)})
		return
	}

	payload := inventory.QRPayload(itemID, h.Inventory.Settings().BaseURL)
	c.JSON(http.StatusOK, gin.H{
		"id":       itemID,
		"payload":  payload,
		"imageUrl": inventory.QRImageURL(payload),
	})
}

// GetOptions is the handler for GET /v1/options
// It lists existing similar ids and locations for autocomplete and filters.
func (h *Handlers) GetOptions(c *gin.Context) {
	records, loadErr := h.Inventory.Snapshot(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"similarIds": inventory.SimilarIDs(records),
		"locations":  inventory.Locations(records),
		"warning":    warningOf(loadErr),
	})
}
