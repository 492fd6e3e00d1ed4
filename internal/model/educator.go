package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EducatorStatus marks whether an educator is actively producing content
type EducatorStatus string

const (
	EducatorStatusActive   EducatorStatus = "active"
	EducatorStatusInactive EducatorStatus = "inactive"
)

// Educator represents a content creator whose YouTube hours are tracked
type Educator struct {
	ID       uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string         `json:"name" gorm:"size:100;not null"`
	Email    string         `json:"email" gorm:"uniqueIndex;size:255"`
	Subject  string         `json:"subject" gorm:"size:100"`
	Avatar   string         `json:"avatar" gorm:"size:500;default:''"`
	Status   EducatorStatus `json:"status" gorm:"size:20;default:'active'"`
	JoinDate time.Time      `json:"join_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Videos []Video `json:"videos,omitempty" gorm:"foreignKey:EducatorID;constraint:OnDelete:CASCADE"`
}

// Initials returns up to two initials for avatar fallbacks
func (e *Educator) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(e.Name) {
		if len(initials) >= 2 {
			break
		}
		initials = append(initials, unicode.ToUpper([]rune(part)[0]))
	}
	return string(initials)
}
