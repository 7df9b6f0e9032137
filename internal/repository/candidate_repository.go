package repository

import (
	"github.com/levitica/hireflow/internal/model"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Create(candidate *model.Candidate) error
	Update(candidate *model.Candidate) error
	FindByEmail(email string) (*model.Candidate, error)
	FindByID(id uint) (*model.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *model.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *candidateRepository) Update(candidate *model.Candidate) error {
	return r.db.Save(candidate).Error
}

func (r *candidateRepository) FindByEmail(email string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.Where("email = ?", email).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByID(id uint) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.First(&candidate, id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}
