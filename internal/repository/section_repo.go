package repository

import (
	"errors"

	"github.com/novelhelper/backend/internal/model"
	"gorm.io/gorm"
)

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Create(section *model.Section) error {
	return r.db.Create(section).Error
}

func (r *sectionRepository) Get(id string) (*model.Section, error) {
	var section model.Section
	err := r.db.First(&section, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) Save(section *model.Section) error {
	return r.db.Save(section).Error
}

func (r *sectionRepository) Delete(id string) error {
	return r.db.Delete(&model.Section{}, "id = ?", id).Error
}

func (r *sectionRepository) GetByVersion(versionID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.Where("version_id = ?", versionID).
		Order("sort_order").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepository) DeleteByVersion(versionID string) error {
	return r.db.Where("version_id = ?", versionID).Delete(&model.Section{}).Error
}
