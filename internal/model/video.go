package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoStatus tracks the metadata lifecycle of a recorded video link
type VideoStatus string

const (
	VideoStatusActive     VideoStatus = "active"
	VideoStatusArchived   VideoStatus = "archived"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusError      VideoStatus = "error"
)

// Video represents a YouTube video recorded against an educator
type Video struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EducatorID uuid.UUID `json:"educator_id" gorm:"type:uuid;not null;index"`

	YouTubeID    string  `json:"youtube_id" gorm:"column:youtube_id;size:20;not null;index"`
	URL          string  `json:"url" gorm:"size:500;not null"`
	Title        string  `json:"title" gorm:"size:300"`
	ChannelName  string  `json:"channel_name" gorm:"size:200"`
	Thumbnail    string  `json:"thumbnail" gorm:"size:500"`
	Duration     string  `json:"duration" gorm:"size:16"` // display form, "1:23:45" or "12:34"
	Minutes      float64 `json:"minutes"`                 // duration in minutes, for aggregation
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
	Engagement   float64 `json:"engagement"` // (likes+comments)/views as a percentage

	Status      VideoStatus `json:"status" gorm:"size:20;default:'active'"`
	PublishedAt *time.Time  `json:"published_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Educator Educator `json:"-" gorm:"foreignKey:EducatorID"`
}
