package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/gin-gonic/gin"
)

// StatsHandler handles aggregation and export endpoints
type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Overview godoc
// @Summary Catalog-wide totals
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.StatsOverview
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.stats.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// PerEducator godoc
// @Summary Per-educator breakdown
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.EducatorStats
// @Router /stats/educators [get]
func (h *StatsHandler) PerEducator(c *gin.Context) {
	stats, err := h.stats.PerEducator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportCSV godoc
// @Summary Download the per-educator breakdown as CSV
// @Tags Stats
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV stream"
// @Router /stats/export/csv [get]
func (h *StatsHandler) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("edutrack-report-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := h.stats.WriteCSV(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to export CSV"})
		return
	}
}

// ExportPDF godoc
// @Summary Download the per-educator breakdown as PDF
// @Tags Stats
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {string} string "PDF stream"
// @Router /stats/export/pdf [get]
func (h *StatsHandler) ExportPDF(c *gin.Context) {
	filename := fmt.Sprintf("edutrack-report-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := h.stats.WritePDF(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to export PDF"})
		return
	}
}
