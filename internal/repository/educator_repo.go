package repository

import (
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EducatorRepository handles database operations for Educator
type EducatorRepository struct {
	db *gorm.DB
}

func NewEducatorRepository(db *gorm.DB) *EducatorRepository {
	return &EducatorRepository{db: db}
}

// Create inserts a new educator
func (r *EducatorRepository) Create(educator *model.Educator) error {
	return r.db.Create(educator).Error
}

// FindByID finds an educator by UUID
func (r *EducatorRepository) FindByID(id uuid.UUID) (*model.Educator, error) {
	var educator model.Educator
	err := r.db.Where("id = ?", id).First(&educator).Error
	if err != nil {
		return nil, err
	}
	return &educator, nil
}

// FindByEmail finds an educator by email
func (r *EducatorRepository) FindByEmail(email string) (*model.Educator, error) {
	var educator model.Educator
	err := r.db.Where("email = ?", email).First(&educator).Error
	if err != nil {
		return nil, err
	}
	return &educator, nil
}

// List returns all educators ordered by name
func (r *EducatorRepository) List() ([]model.Educator, error) {
	var educators []model.Educator
	err := r.db.Order("name ASC").Find(&educators).Error
	return educators, err
}

// Count returns the number of educators
func (r *EducatorRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Educator{}).Count(&count).Error
	return count, err
}

// Update applies the given column updates to an educator
func (r *EducatorRepository) Update(id uuid.UUID, updates map[string]interface{}) error {
	return r.db.Model(&model.Educator{}).Where("id = ?", id).Updates(updates).Error
}

// Delete soft-deletes an educator and its videos
func (r *EducatorRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("educator_id = ?", id).Delete(&model.Video{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Educator{}).Error
	})
}
