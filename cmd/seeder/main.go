package main

import (
	"fmt"
	"log"
	"time"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var subjects = []string{
	"Mathematics",
	"Physics",
	"Computer Science",
	"Chemistry",
	"Biology",
}

func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	log.Println("🌱 Seeding 5 educators...")

	educators := make([]model.Educator, 0, len(subjects))
	for i, subject := range subjects {
		name := fmt.Sprintf("Educator %d", i+1)
		email := fmt.Sprintf("educator%d@%s", i+1, cfg.OTP.AllowedDomain)

		var existing model.Educator
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			educators = append(educators, existing)
			continue
		}

		educator := model.Educator{
			ID:       uuid.New(),
			Name:     name,
			Email:    email,
			Subject:  subject,
			Status:   model.EducatorStatusActive,
			JoinDate: time.Now().AddDate(0, -(i + 1), 0),
			Avatar:   fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", name),
		}

		if err := db.Create(&educator).Error; err != nil {
			log.Printf("❌ Failed to create educator %s: %v", name, err)
			continue
		}
		log.Printf("✅ Created educator: %s | %s | %s", name, subject, email)
		educators = append(educators, educator)
	}

	seedVideos(db, educators)

	log.Println("🎉 Seeding completed!")
}

// seedVideos attaches a couple of sample lecture recordings per educator.
// Metadata mimics what a Data API fetch would have stored.
func seedVideos(db *gorm.DB, educators []model.Educator) {
	samples := []struct {
		youtubeID string
		title     string
		duration  string
		minutes   float64
		views     int64
		likes     int64
		comments  int64
	}{
		{"dQw4w9WgXcQ", "Lecture 1: Foundations", "42:10", 42.17, 15400, 820, 143},
		{"9bZkp7q19f0", "Lecture 2: Worked Examples", "1:05:33", 65.55, 8900, 410, 96},
	}

	for _, educator := range educators {
		for j, s := range samples {
			var existing model.Video
			err := db.Where("educator_id = ? AND youtube_id = ?", educator.ID, s.youtubeID).
				First(&existing).Error
			if err == nil {
				continue
			}

			engagement := float64(s.likes+s.comments) / float64(s.views) * 100
			publishedAt := time.Now().AddDate(0, 0, -(j+1)*7)

			video := model.Video{
				ID:           uuid.New(),
				EducatorID:   educator.ID,
				YouTubeID:    s.youtubeID,
				URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", s.youtubeID),
				Title:        fmt.Sprintf("%s - %s", educator.Subject, s.title),
				ChannelName:  educator.Name,
				Thumbnail:    fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", s.youtubeID),
				Duration:     s.duration,
				Minutes:      s.minutes,
				ViewCount:    s.views,
				LikeCount:    s.likes,
				CommentCount: s.comments,
				Engagement:   engagement,
				Status:       model.VideoStatusActive,
				PublishedAt:  &publishedAt,
			}

			if err := db.Create(&video).Error; err != nil {
				log.Printf("❌ Failed to create video for %s: %v", educator.Name, err)
			} else {
				log.Printf("✅ Created video: %s", video.Title)
			}
		}
	}
}
