package repository

import (
	"errors"

	"github.com/novelhelper/backend/internal/model"
	"gorm.io/gorm"
)

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *model.Version) error {
	return r.db.Create(version).Error
}

func (r *versionRepository) Get(id string) (*model.Version, error) {
	var version model.Version
	err := r.db.First(&version, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) Save(version *model.Version) error {
	return r.db.Save(version).Error
}

func (r *versionRepository) Delete(id string) error {
	return r.db.Delete(&model.Version{}, "id = ?", id).Error
}

func (r *versionRepository) GetByBranch(branchID string) ([]model.Version, error) {
	var versions []model.Version
	err := r.db.Where("branch_id = ?", branchID).
		Order("created_at DESC").
		Find(&versions).Error
	return versions, err
}

// GetLatestForBranch 取分支下最新创建的版本
func (r *versionRepository) GetLatestForBranch(branchID string) (*model.Version, error) {
	var version model.Version
	err := r.db.Where("branch_id = ?", branchID).
		Order("created_at DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) GetUnsynced() ([]model.Version, error) {
	var versions []model.Version
	err := r.db.Where("is_synced_to_cloud = ?", false).
		Order("created_at").
		Find(&versions).Error
	return versions, err
}

// MarkSynced 幂等地将版本标记为已同步
func (r *versionRepository) MarkSynced(id string) error {
	return r.db.Model(&model.Version{}).
		Where("id = ?", id).
		Update("is_synced_to_cloud", true).Error
}

// GetReferencing 查找 diff 链上引用了该版本的后继版本
func (r *versionRepository) GetReferencing(id string) ([]model.Version, error) {
	var versions []model.Version
	err := r.db.Where("diff_from_version_id = ?", id).Find(&versions).Error
	return versions, err
}
