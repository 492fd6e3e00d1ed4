package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/jung-kurt/gofpdf"
)

// StatsService aggregates content hours and views across educators and
// renders the CSV/PDF exports
type StatsService struct {
	educatorRepo *repository.EducatorRepository
	videoRepo    *repository.VideoRepository
}

func NewStatsService(educatorRepo *repository.EducatorRepository, videoRepo *repository.VideoRepository) *StatsService {
	return &StatsService{
		educatorRepo: educatorRepo,
		videoRepo:    videoRepo,
	}
}

// Overview returns catalog-wide totals
func (s *StatsService) Overview() (*model.StatsOverview, error) {
	educatorCount, err := s.educatorRepo.Count()
	if err != nil {
		return nil, err
	}

	totals, err := s.videoRepo.AggregateTotals()
	if err != nil {
		return nil, err
	}

	return &model.StatsOverview{
		EducatorCount: educatorCount,
		VideoCount:    totals.VideoCount,
		TotalMinutes:  totals.TotalMinutes,
		TotalHours:    FormatHours(totals.TotalMinutes),
		TotalViews:    totals.TotalViews,
		AvgEngagement: totals.AvgEngagement,
	}, nil
}

// PerEducator returns the per-educator breakdown, ordered by name
func (s *StatsService) PerEducator() ([]model.EducatorStats, error) {
	educators, err := s.educatorRepo.List()
	if err != nil {
		return nil, err
	}

	aggregates, err := s.videoRepo.AggregateByEducator()
	if err != nil {
		return nil, err
	}

	stats := make([]model.EducatorStats, 0, len(educators))
	for _, educator := range educators {
		agg := aggregates[educator.ID]
		stats = append(stats, model.EducatorStats{
			EducatorID:   educator.ID,
			Name:         educator.Name,
			Subject:      educator.Subject,
			VideoCount:   agg.VideoCount,
			TotalMinutes: agg.TotalMinutes,
			TotalHours:   FormatHours(agg.TotalMinutes),
			TotalViews:   agg.TotalViews,
			Engagement:   agg.Engagement,
		})
	}
	return stats, nil
}

// WriteCSV streams the per-educator breakdown as CSV
func (s *StatsService) WriteCSV(w io.Writer) error {
	stats, err := s.PerEducator()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Educator", "Subject", "Videos", "Total Hours", "Total Views", "Engagement %"}); err != nil {
		return err
	}
	for _, row := range stats {
		record := []string{
			row.Name,
			row.Subject,
			strconv.FormatInt(row.VideoCount, 10),
			row.TotalHours,
			strconv.FormatInt(row.TotalViews, 10),
			strconv.FormatFloat(row.Engagement, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePDF streams the per-educator breakdown as a one-page PDF report
func (s *StatsService) WritePDF(w io.Writer) error {
	overview, err := s.Overview()
	if err != nil {
		return err
	}
	stats, err := s.PerEducator()
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "EduTrack - YouTube Content Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s", time.Now().Format("Jan 2, 2006 15:04")))
	pdf.Ln(12)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Educators: %d    Videos: %d    Total hours: %s    Total views: %d",
		overview.EducatorCount, overview.VideoCount, overview.TotalHours, overview.TotalViews))
	pdf.Ln(12)

	// Table header
	widths := []float64{55, 35, 20, 30, 30, 20}
	headers := []string{"Educator", "Subject", "Videos", "Hours", "Views", "Eng %"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(5, 150, 105)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, row := range stats {
		pdf.SetFillColor(240, 250, 245)
		cells := []string{
			row.Name,
			row.Subject,
			strconv.FormatInt(row.VideoCount, 10),
			row.TotalHours,
			strconv.FormatInt(row.TotalViews, 10),
			strconv.FormatFloat(row.Engagement, 'f', 2, 64),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	return pdf.Output(w)
}
