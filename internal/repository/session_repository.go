package repository

import (
	"github.com/levitica/hireflow/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.ExamSession) error
	Update(session *model.ExamSession) error
	FindByID(id uint) (*model.ExamSession, error)
	FindByIDWithDetails(id uint) (*model.ExamSession, error)
	FindInProgress(assessment string, candidateID uint) (*model.ExamSession, error)
	FindAll(assessment string) ([]model.ExamSession, error)
	UpdateAnswer(answer *model.SessionAnswer) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.ExamSession) error {
	// Associated answers, when populated, are created in the same insert.
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *model.ExamSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindByID(id uint) (*model.ExamSession, error) {
	var session model.ExamSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByIDWithDetails(id uint) (*model.ExamSession, error) {
	var session model.ExamSession
	err := r.db.
		Preload("Candidate").
		Preload("Answers.Question").
		First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindInProgress(assessment string, candidateID uint) (*model.ExamSession, error) {
	var session model.ExamSession
	err := r.db.Where("assessment = ? AND candidate_id = ? AND status = ?",
		assessment, candidateID, model.SessionInProgress).
		Order("started_at DESC").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindAll(assessment string) ([]model.ExamSession, error) {
	var sessions []model.ExamSession
	query := r.db.Preload("Candidate")
	if assessment != "" {
		query = query.Where("assessment = ?", assessment)
	}
	if err := query.Order("started_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) UpdateAnswer(answer *model.SessionAnswer) error {
	return r.db.Save(answer).Error
}
