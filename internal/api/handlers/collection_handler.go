package handlers

import (
	"fmt"
	"net/http"

	"github.com/andresuchdata/autopull/internal/export"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collectionService *service.CollectionService
}

func NewCollectionHandler(collectionService *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// Current returns the present new-collection batch.
func (h *CollectionHandler) Current(c *gin.Context) {
	batch, err := h.collectionService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Export streams the batch lines as an XLSX workbook.
func (h *CollectionHandler) Export(c *gin.Context) {
	batch, err := h.collectionService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	records := make([]export.Record, 0, len(batch.Items))
	for _, item := range batch.Items {
		records = append(records, export.Record{
			Category: item.Category,
			SKU:      item.SKU,
			Size:     item.Size,
			Color:    item.Color,
			Qty:      item.Qty,
		})
	}

	name := fmt.Sprintf("new-collection-%s.xlsx", batch.CreatedAt.UTC().Format("2006-01-02"))
	sendWorkbook(c, name, "New Collection", records)
}

// ExecuteLine executes a single batch line.
func (h *CollectionHandler) ExecuteLine(c *gin.Context) {
	lineID := pathParam(c, "lineId")
	if err := h.collectionService.ExecuteLine(c.Request.Context(), lineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"line_id": lineID, "status": "done"})
}

// ExecuteAll executes every pending batch line.
func (h *CollectionHandler) ExecuteAll(c *gin.Context) {
	report, err := h.collectionService.ExecuteAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
