package repository

import (
	"errors"

	"github.com/novelhelper/backend/internal/model"
	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

func (r *documentRepository) Get(id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Save(doc *model.Document) error {
	return r.db.Save(doc).Error
}

func (r *documentRepository) Delete(id string) error {
	return r.db.Delete(&model.Document{}, "id = ?", id).Error
}

func (r *documentRepository) List() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Order("updated_at DESC").Find(&docs).Error
	return docs, err
}

// Search 标题子串搜索，不区分大小写
func (r *documentRepository) Search(query string) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%").
		Order("updated_at DESC").
		Find(&docs).Error
	return docs, err
}
