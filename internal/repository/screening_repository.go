package repository

import (
	"github.com/levitica/hireflow/internal/model"
	"gorm.io/gorm"
)

type ScreeningRepository interface {
	Create(record *model.ScreeningRecord) error
	Update(record *model.ScreeningRecord) error
	FindByDigestAndRole(digest, role string) (*model.ScreeningRecord, error)
	FindAll(limit, offset int) ([]model.ScreeningRecord, error)
}

type screeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) Create(record *model.ScreeningRecord) error {
	return r.db.Create(record).Error
}

func (r *screeningRepository) Update(record *model.ScreeningRecord) error {
	return r.db.Save(record).Error
}

func (r *screeningRepository) FindByDigestAndRole(digest, role string) (*model.ScreeningRecord, error) {
	var record model.ScreeningRecord
	err := r.db.Where("file_digest = ? AND role = ?", digest, role).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *screeningRepository) FindAll(limit, offset int) ([]model.ScreeningRecord, error) {
	var records []model.ScreeningRecord
	if limit <= 0 {
		limit = 50
	}
	err := r.db.Order("id DESC").Offset(offset).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
