package repository

import (
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoRepository handles database operations for Video
type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// Save persists all fields of an existing video
func (r *VideoRepository) Save(video *model.Video) error {
	return r.db.Save(video).Error
}

// FindByID finds a video by UUID
func (r *VideoRepository) FindByID(id uuid.UUID) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// FindByYouTubeID finds a video by educator and YouTube video id (dedupe)
func (r *VideoRepository) FindByYouTubeID(educatorID uuid.UUID, youtubeID string) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("educator_id = ? AND youtube_id = ?", educatorID, youtubeID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// List returns videos, newest first, optionally filtered by status
func (r *VideoRepository) List(status model.VideoStatus, limit int) ([]model.Video, error) {
	var videos []model.Video
	q := r.db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&videos).Error
	return videos, err
}

// ListByEducator returns an educator's videos, newest first
func (r *VideoRepository) ListByEducator(educatorID uuid.UUID) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.
		Where("educator_id = ?", educatorID).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

// Count returns the number of videos
func (r *VideoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Video{}).Count(&count).Error
	return count, err
}

// Delete soft-deletes a video
func (r *VideoRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&model.Video{}).Error
}

// EducatorAggregate is a per-educator rollup of content volume
type EducatorAggregate struct {
	EducatorID   uuid.UUID
	VideoCount   int64
	TotalMinutes float64
	TotalViews   int64
	Engagement   float64
}

// AggregateByEducator computes per-educator totals over active videos
func (r *VideoRepository) AggregateByEducator() (map[uuid.UUID]EducatorAggregate, error) {
	var rows []EducatorAggregate
	err := r.db.Model(&model.Video{}).
		Select("educator_id, COUNT(*) AS video_count, COALESCE(SUM(minutes), 0) AS total_minutes, COALESCE(SUM(view_count), 0) AS total_views, COALESCE(AVG(engagement), 0) AS engagement").
		Where("status = ?", model.VideoStatusActive).
		Group("educator_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	aggregates := make(map[uuid.UUID]EducatorAggregate, len(rows))
	for _, row := range rows {
		aggregates[row.EducatorID] = row
	}
	return aggregates, nil
}

// Totals is a whole-catalog rollup used by the stats overview
type Totals struct {
	VideoCount    int64
	TotalMinutes  float64
	TotalViews    int64
	AvgEngagement float64
}

// AggregateTotals computes catalog-wide totals over active videos
func (r *VideoRepository) AggregateTotals() (*Totals, error) {
	var totals Totals
	err := r.db.Model(&model.Video{}).
		Select("COUNT(*) AS video_count, COALESCE(SUM(minutes), 0) AS total_minutes, COALESCE(SUM(view_count), 0) AS total_views, COALESCE(AVG(engagement), 0) AS avg_engagement").
		Where("status = ?", model.VideoStatusActive).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
