package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/andresuchdata/autopull/internal/export"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sendWorkbook renders records into an XLSX workbook and streams it as a
// download attachment.
func sendWorkbook(c *gin.Context, fileName, title string, records []export.Record) {
	f, err := export.WriteReport(title, records)
	if err != nil {
		respondError(c, fmt.Errorf("build workbook: %w", err))
		return
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, fmt.Errorf("encode workbook: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", url.PathEscape(fileName)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
