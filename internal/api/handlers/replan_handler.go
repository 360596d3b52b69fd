package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/andresuchdata/autopull/internal/export"
	"github.com/andresuchdata/autopull/internal/ingest"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const defaultRunListLimit = 20

type ReplanHandler struct {
	replanService *service.ReplanService
	archive       *service.ReportArchive
}

func NewReplanHandler(replanService *service.ReplanService, archive *service.ReportArchive) *ReplanHandler {
	return &ReplanHandler{replanService: replanService, archive: archive}
}

// Generate builds a new replan run from an uploaded sales report.
func (h *ReplanHandler) Generate(c *gin.Context) {
	fileName, data, contentType, err := readUploadedFile(c)
	if err != nil {
		respondError(c, err)
		return
	}
	category := strings.TrimSpace(c.PostForm("category"))

	rows, format, err := ingest.Rows(fileName, bytes.NewReader(data))
	if err != nil {
		respondError(c, err)
		return
	}

	run, err := h.replanService.Generate(c.Request.Context(), fileName, rows, category)
	if err != nil {
		respondError(c, err)
		return
	}

	h.archive.ArchiveAsync("sales", fileName, data, contentType)
	log.Debug().Str("format", string(format)).Str("file", fileName).Msg("sales report ingested")
	c.JSON(http.StatusCreated, run)
}

// List returns run summaries, most recent first.
func (h *ReplanHandler) List(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), defaultRunListLimit)
	summaries, err := h.replanService.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": summaries, "count": len(summaries)})
}

// Get returns one full run with its lines.
func (h *ReplanHandler) Get(c *gin.Context) {
	run, err := h.replanService.Get(c.Request.Context(), pathParam(c, "runId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// Export streams a run's lines as an XLSX workbook with the proposed pull
// quantity per line.
func (h *ReplanHandler) Export(c *gin.Context) {
	runID := pathParam(c, "runId")
	run, err := h.replanService.Get(c.Request.Context(), runID)
	if err != nil {
		respondError(c, err)
		return
	}

	records := make([]export.Record, 0, len(run.Lines))
	for _, line := range run.Lines {
		records = append(records, export.Record{
			Category: line.Category,
			SKU:      line.SKU,
			Size:     line.Size,
			Color:    line.Color,
			Qty:      line.PullQty,
		})
	}

	name := fmt.Sprintf("replan-%s.xlsx", shortRunID(runID))
	sendWorkbook(c, name, "Replan", records)
}

// ExecuteLine executes a single run line.
func (h *ReplanHandler) ExecuteLine(c *gin.Context) {
	runID := pathParam(c, "runId")
	lineID := pathParam(c, "lineId")
	if err := h.replanService.ExecuteLine(c.Request.Context(), runID, lineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": runID, "line_id": lineID, "status": "done"})
}

// ExecuteAll executes every pending line of the run.
func (h *ReplanHandler) ExecuteAll(c *gin.Context) {
	report, err := h.replanService.ExecuteAll(c.Request.Context(), pathParam(c, "runId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
