package repository

import (
	"errors"

	"github.com/novelhelper/backend/internal/model"
	"gorm.io/gorm"
)

type branchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(branch *model.Branch) error {
	return r.db.Create(branch).Error
}

func (r *branchRepository) Get(id string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.First(&branch, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) Save(branch *model.Branch) error {
	return r.db.Save(branch).Error
}

func (r *branchRepository) Delete(id string) error {
	return r.db.Delete(&model.Branch{}, "id = ?", id).Error
}

func (r *branchRepository) GetByDocument(documentID string) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.Where("document_id = ?", documentID).
		Order("updated_at DESC").
		Find(&branches).Error
	return branches, err
}

func (r *branchRepository) GetMainBranch(documentID string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.Where("document_id = ? AND is_main_branch = ?", documentID, true).
		First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}
