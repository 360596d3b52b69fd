package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/andresuchdata/autopull/internal/export"
	"github.com/andresuchdata/autopull/internal/ingest"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type StockHandler struct {
	stockService *service.StockService
	archive      *service.ReportArchive
}

func NewStockHandler(stockService *service.StockService, archive *service.ReportArchive) *StockHandler {
	return &StockHandler{stockService: stockService, archive: archive}
}

// Upload replaces the stock ledger from an uploaded report file.
func (h *StockHandler) Upload(c *gin.Context) {
	fileName, data, contentType, err := readUploadedFile(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if name := strings.TrimSpace(c.PostForm("source_name")); name != "" {
		fileName = name
	}

	rows, format, err := ingest.Rows(fileName, bytes.NewReader(data))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.stockService.Upload(c.Request.Context(), fileName, rows)
	if err != nil {
		respondError(c, err)
		return
	}

	h.archive.ArchiveAsync("stock", fileName, data, contentType)
	log.Debug().Str("format", string(format)).Str("file", fileName).Msg("stock report ingested")
	c.JSON(http.StatusOK, summary)
}

// Search returns in-stock items matching the query parameters.
func (h *StockHandler) Search(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")
	limit := parsePositiveIntWithDefault(c.Query("limit"), 0)

	items, err := h.stockService.Search(c.Request.Context(), query, category, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// Export streams the current in-stock items as an XLSX workbook.
func (h *StockHandler) Export(c *gin.Context) {
	ledger, err := h.stockService.Ledger(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	records := make([]export.Record, 0, len(ledger.Items))
	for _, item := range ledger.Items {
		if item.Qty <= 0 {
			continue
		}
		records = append(records, export.Record{
			Category: item.Category,
			SKU:      item.SKU,
			Size:     item.Size,
			Color:    item.Color,
			Qty:      item.Qty,
		})
	}
	sortRecords(records)

	name := fmt.Sprintf("stock-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	sendWorkbook(c, name, "Stock", records)
}

// Clear wipes the ledger, the run history, and the new-collection batch.
func (h *StockHandler) Clear(c *gin.Context) {
	if err := h.stockService.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock state cleared"})
}

// readUploadedFile pulls the multipart "file" field fully into memory.
// Reports are small; buffering lets ingest and the archive share the bytes.
func readUploadedFile(c *gin.Context) (name string, data []byte, contentType string, err error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, "", domain.ValidationError{Field: "file", Reason: "multipart file field is required"}
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return "", nil, "", fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, header.Header.Get("Content-Type"), nil
}

func sortRecords(records []export.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Category != records[j].Category {
			return records[i].Category < records[j].Category
		}
		if records[i].SKU != records[j].SKU {
			return records[i].SKU < records[j].SKU
		}
		return domain.Key(records[i].SKU, records[i].Size, records[i].Color) <
			domain.Key(records[j].SKU, records[j].Size, records[j].Color)
	})
}
