package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrEducatorNotFound means no educator exists for the given id
	ErrEducatorNotFound = errors.New("educator not found")
	// ErrVideoExists means the video is already recorded for this educator
	ErrVideoExists = errors.New("video already recorded for this educator")
	// ErrEducatorEmailExists means another educator already uses the email
	ErrEducatorEmailExists = errors.New("educator with this email already exists")
)

// EventPublisher pushes catalog change events to connected dashboards
type EventPublisher interface {
	Broadcast(event *model.WSEvent)
}

// CatalogService manages educators and their recorded videos
type CatalogService struct {
	educatorRepo *repository.EducatorRepository
	videoRepo    *repository.VideoRepository
	fetcher      MetadataFetcher
	events       EventPublisher
}

func NewCatalogService(
	educatorRepo *repository.EducatorRepository,
	videoRepo *repository.VideoRepository,
	fetcher MetadataFetcher,
	events EventPublisher,
) *CatalogService {
	return &CatalogService{
		educatorRepo: educatorRepo,
		videoRepo:    videoRepo,
		fetcher:      fetcher,
		events:       events,
	}
}

// ==================== Educators ====================

// CreateEducator registers a new educator. Avatar is set separately by the
// handler after the upload succeeds.
func (s *CatalogService) CreateEducator(req model.CreateEducatorRequest, avatarURL string) (*model.Educator, error) {
	if req.Email != "" {
		if _, err := s.educatorRepo.FindByEmail(req.Email); err == nil {
			return nil, ErrEducatorEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	joinDate := time.Now()
	if req.JoinDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.JoinDate); err == nil {
			joinDate = parsed
		}
	}

	educator := &model.Educator{
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Avatar:   avatarURL,
		Status:   model.EducatorStatusActive,
		JoinDate: joinDate,
	}
	if err := s.educatorRepo.Create(educator); err != nil {
		return nil, fmt.Errorf("failed to create educator: %w", err)
	}

	s.publish(model.WSEventEducatorCreated, educator)
	return educator, nil
}

// ListEducators returns all educators with their content rollups
func (s *CatalogService) ListEducators() ([]model.EducatorResponse, error) {
	educators, err := s.educatorRepo.List()
	if err != nil {
		return nil, err
	}

	aggregates, err := s.videoRepo.AggregateByEducator()
	if err != nil {
		return nil, err
	}

	responses := make([]model.EducatorResponse, 0, len(educators))
	for _, educator := range educators {
		agg := aggregates[educator.ID]
		responses = append(responses, model.EducatorResponse{
			Educator:   educator,
			Initials:   educator.Initials(),
			VideoCount: agg.VideoCount,
			TotalHours: agg.TotalMinutes / 60,
		})
	}
	return responses, nil
}

// GetEducator returns a single educator with rollups
func (s *CatalogService) GetEducator(id uuid.UUID) (*model.EducatorResponse, error) {
	educator, err := s.educatorRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEducatorNotFound
		}
		return nil, err
	}

	aggregates, err := s.videoRepo.AggregateByEducator()
	if err != nil {
		return nil, err
	}

	agg := aggregates[educator.ID]
	return &model.EducatorResponse{
		Educator:   *educator,
		Initials:   educator.Initials(),
		VideoCount: agg.VideoCount,
		TotalHours: agg.TotalMinutes / 60,
	}, nil
}

// UpdateEducator applies a partial update
func (s *CatalogService) UpdateEducator(id uuid.UUID, req model.UpdateEducatorRequest, avatarURL string) (*model.EducatorResponse, error) {
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Subject != "" {
		updates["subject"] = req.Subject
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if avatarURL != "" {
		updates["avatar"] = avatarURL
	}

	if len(updates) > 0 {
		if err := s.educatorRepo.Update(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update educator: %w", err)
		}
	}

	educator, err := s.GetEducator(id)
	if err != nil {
		return nil, err
	}

	s.publish(model.WSEventEducatorUpdated, educator)
	return educator, nil
}

// DeleteEducator removes an educator and all their videos
func (s *CatalogService) DeleteEducator(id uuid.UUID) error {
	if _, err := s.educatorRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEducatorNotFound
		}
		return err
	}

	if err := s.educatorRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete educator: %w", err)
	}

	s.publish(model.WSEventEducatorDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

// ==================== Videos ====================

// AddVideo records a video link for an educator. Metadata is fetched up
// front; if the platform lookup fails the link is still stored, flagged as
// errored, so it can be refreshed later.
func (s *CatalogService) AddVideo(ctx context.Context, req model.AddVideoRequest) (*model.Video, error) {
	if _, err := s.educatorRepo.FindByID(req.EducatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEducatorNotFound
		}
		return nil, err
	}

	youtubeID, err := ExtractVideoID(req.URL)
	if err != nil {
		return nil, err
	}

	if _, err := s.videoRepo.FindByYouTubeID(req.EducatorID, youtubeID); err == nil {
		return nil, ErrVideoExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	video := &model.Video{
		EducatorID: req.EducatorID,
		YouTubeID:  youtubeID,
		URL:        req.URL,
		Status:     model.VideoStatusProcessing,
	}

	if meta, err := s.fetcher.Fetch(ctx, req.URL); err != nil {
		video.Status = model.VideoStatusError
	} else {
		applyMetadata(video, meta)
		video.Status = model.VideoStatusActive
	}

	if err := s.videoRepo.Create(video); err != nil {
		return nil, fmt.Errorf("failed to save video: %w", err)
	}

	s.publish(model.WSEventVideoAdded, video)
	return video, nil
}

// RefreshVideo re-fetches platform metadata for an existing video
func (s *CatalogService) RefreshVideo(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	meta, err := s.fetcher.Fetch(ctx, video.URL)
	if err != nil {
		return nil, err
	}

	applyMetadata(video, meta)
	video.Status = model.VideoStatusActive
	if err := s.videoRepo.Save(video); err != nil {
		return nil, fmt.Errorf("failed to save video: %w", err)
	}

	s.publish(model.WSEventVideoRefreshed, video)
	return video, nil
}

// ListVideos returns videos, optionally filtered by status
func (s *CatalogService) ListVideos(req model.VideoListRequest) ([]model.Video, error) {
	if req.EducatorID != "" {
		educatorID, err := uuid.Parse(req.EducatorID)
		if err != nil {
			return nil, ErrEducatorNotFound
		}
		return s.videoRepo.ListByEducator(educatorID)
	}
	return s.videoRepo.List(model.VideoStatus(req.Status), req.Limit)
}

// ListVideosByEducator returns all videos recorded for an educator
func (s *CatalogService) ListVideosByEducator(educatorID uuid.UUID) ([]model.Video, error) {
	return s.videoRepo.ListByEducator(educatorID)
}

// DeleteVideo removes a recorded video
func (s *CatalogService) DeleteVideo(id uuid.UUID) error {
	if err := s.videoRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	s.publish(model.WSEventVideoDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

// publish sends a dashboard event if a hub is wired
func (s *CatalogService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(&model.WSEvent{Type: eventType, Payload: payload})
}

// applyMetadata copies fetched platform metadata onto a video record
func applyMetadata(video *model.Video, meta *VideoMetadata) {
	video.Title = meta.Title
	video.ChannelName = meta.ChannelTitle
	video.Thumbnail = meta.Thumbnail
	video.Duration = meta.Duration
	video.Minutes = meta.Minutes
	video.ViewCount = meta.ViewCount
	video.LikeCount = meta.LikeCount
	video.CommentCount = meta.CommentCount
	video.Engagement = meta.Engagement
	if !meta.PublishedAt.IsZero() {
		published := meta.PublishedAt
		video.PublishedAt = &published
	}
}
