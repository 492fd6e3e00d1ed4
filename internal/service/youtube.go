package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	// ErrInvalidVideoURL means the link is not a recognizable YouTube URL
	ErrInvalidVideoURL = errors.New("invalid YouTube URL")
	// ErrVideoNotFound means the platform has no video for the extracted id
	ErrVideoNotFound = errors.New("video not found")
)

// watch?v=, youtu.be/ and embed/ forms
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// VideoMetadata is what the platform reports about a single video
type VideoMetadata struct {
	YouTubeID    string
	Title        string
	ChannelTitle string
	Thumbnail    string
	Duration     string // display form, "1:23:45" or "12:34"
	Minutes      float64
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	Engagement   float64
	PublishedAt  time.Time
}

// MetadataFetcher resolves a video link to its platform metadata
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoURL string) (*VideoMetadata, error)
}

// UnavailableFetcher stands in when no API key is configured. Links are still
// accepted but stored without metadata until a refresh succeeds.
type UnavailableFetcher struct{}

func (UnavailableFetcher) Fetch(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	return nil, errors.New("youtube api not configured")
}

// YouTubeClient fetches video metadata from the YouTube Data API v3
type YouTubeClient struct {
	svc *youtube.Service
}

// NewYouTubeClient creates a Data API client authenticated by API key
func NewYouTubeClient(ctx context.Context, apiKey string) (*YouTubeClient, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	return &YouTubeClient{svc: svc}, nil
}

// Fetch looks up duration, view counts and snippet data for a video link
func (c *YouTubeClient) Fetch(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube api error: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := resp.Items[0]
	display, minutes := ParseISODuration(item.ContentDetails.Duration)

	meta := &VideoMetadata{
		YouTubeID:    item.Id,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Duration:     display,
		Minutes:      minutes,
		ViewCount:    int64(item.Statistics.ViewCount),
		LikeCount:    int64(item.Statistics.LikeCount),
		CommentCount: int64(item.Statistics.CommentCount),
	}
	meta.Engagement = Engagement(meta.LikeCount, meta.CommentCount, meta.ViewCount)

	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		meta.Thumbnail = item.Snippet.Thumbnails.High.Url
	}
	if published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		meta.PublishedAt = published
	}

	return meta, nil
}

// ExtractVideoID pulls the 11-character video id out of a YouTube link
func ExtractVideoID(videoURL string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(videoURL); match != nil {
			return match[1], nil
		}
	}
	return "", ErrInvalidVideoURL
}

// ParseISODuration converts an ISO-8601 duration ("PT1H23M45S") into its
// display form ("1:23:45", or "12:34" under an hour) and total minutes
func ParseISODuration(duration string) (string, float64) {
	match := isoDurationPattern.FindStringSubmatch(duration)
	if match == nil {
		return "0:00", 0
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])

	total := float64(hours)*60 + float64(minutes) + float64(seconds)/60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds), total
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds), total
}

// Engagement is (likes+comments)/views as a percentage, capped at 100
func Engagement(likes, comments, views int64) float64 {
	if views == 0 {
		return 0
	}
	rate := float64(likes+comments) / float64(views) * 100
	rate = math.Round(rate*100) / 100
	return math.Min(rate, 100)
}

// FormatHours renders total minutes as "12h 34m" for dashboards and exports
func FormatHours(minutes float64) string {
	total := int(math.Round(minutes))
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
