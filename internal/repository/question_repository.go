package repository

import (
	"github.com/levitica/hireflow/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	FindByAssessment(assessment string) ([]model.Question, error)
	FindBySet(assessment string, setNo int) ([]model.Question, error)
	CountByAssessment(assessment string) (int64, error)
	UpdateSetAssignments(questions []model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	return r.db.Create(&questions).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByAssessment(assessment string) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("assessment = ?", assessment).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindBySet(assessment string, setNo int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("assessment = ? AND set_no = ?", assessment, setNo).
		Order("order_in_set ASC").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountByAssessment(assessment string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("assessment = ?", assessment).Count(&count).Error
	return count, err
}

func (r *questionRepository) UpdateSetAssignments(questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			err := tx.Model(&model.Question{}).Where("id = ?", questions[i].ID).
				Updates(map[string]interface{}{"set_no": questions[i].SetNo, "order_in_set": questions[i].OrderInSet}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
