package repository

import (
	"github.com/levitica/hireflow/internal/model"
	"gorm.io/gorm"
)

type CodeSubmissionRepository interface {
	Create(submission *model.CodeSubmission) error
	FindByEmail(email string) ([]model.CodeSubmission, error)
}

type codeSubmissionRepository struct {
	db *gorm.DB
}

func NewCodeSubmissionRepository(db *gorm.DB) CodeSubmissionRepository {
	return &codeSubmissionRepository{db: db}
}

func (r *codeSubmissionRepository) Create(submission *model.CodeSubmission) error {
	return r.db.Create(submission).Error
}

func (r *codeSubmissionRepository) FindByEmail(email string) ([]model.CodeSubmission, error) {
	var submissions []model.CodeSubmission
	err := r.db.Where("candidate_email = ?", email).Order("created_at DESC").Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
