package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/pkg/diff"
	"github.com/novelhelper/backend/internal/repository"
	"k8s.io/klog/v2"
)

// VersionContent 版本行与其正文内容的组合读取结果
type VersionContent struct {
	model.Version
	Content string `json:"content"`
}

type CreateVersionRequest struct {
	BranchID string `json:"branch_id" binding:"required"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// CreateVersion 在分支上保存一个新版本。正文先落盘；若分支已有版本，
// 计算与最新版本之间的 diff 并一并落盘，新版本记录前驱引用。
func (s *DocumentService) CreateVersion(req CreateVersionRequest) (*VersionContent, error) {
	branch, err := s.branchRepo.Get(req.BranchID)
	if err != nil {
		return nil, err
	}

	versionID := uuid.New().String()
	if _, err := s.blobs.SaveVersionContent(versionID, req.Content); err != nil {
		return nil, err
	}

	version := &model.Version{
		ID:              versionID,
		BranchID:        branch.ID,
		Title:           req.Title,
		IsSyncedToCloud: false,
		CreatedAt:       time.Now(),
	}

	latest, err := s.versionRepo.GetLatestForBranch(branch.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if latest != nil {
		oldContent, err := s.blobs.GetVersionContent(latest.ID)
		if err != nil {
			return nil, err
		}
		patch := diff.Compute(oldContent, req.Content)
		if _, err := s.blobs.SaveDiff(latest.ID, versionID, patch); err != nil {
			return nil, err
		}
		version.DiffFromVersionID = &latest.ID
		version.HasDiff = true
	}

	if err := s.versionRepo.Create(version); err != nil {
		return nil, err
	}
	s.touchDocument(branch.DocumentID)

	klog.V(6).Infof("版本已创建: versionID=%s, branchID=%s, diffFrom=%v", versionID, branch.ID, version.DiffFromVersionID)
	return &VersionContent{Version: *version, Content: req.Content}, nil
}

// UpdateVersion 原地重写版本正文并重置同步标记。不重算 diff 链，
// diff 只在创建新版本时计算。版本不存在时静默跳过。
func (s *DocumentService) UpdateVersion(id, content, title string) (*VersionContent, error) {
	version, err := s.versionRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := s.blobs.SaveVersionContent(id, content); err != nil {
		return nil, err
	}

	version.Title = title
	version.IsSyncedToCloud = false
	if err := s.versionRepo.Save(version); err != nil {
		return nil, err
	}

	if branch, err := s.branchRepo.Get(version.BranchID); err == nil {
		s.touchDocument(branch.DocumentID)
	}
	return &VersionContent{Version: *version, Content: content}, nil
}

// DeleteVersion 删除版本及其内容文件。后继版本对它的 diff 引用会被
// 置空，对应的 diff 文件一并删除。版本不存在时静默跳过。
func (s *DocumentService) DeleteVersion(id string) error {
	version, err := s.versionRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	referencing, err := s.versionRepo.GetReferencing(id)
	if err != nil {
		return err
	}
	for _, ref := range referencing {
		s.blobs.DeleteDiff(id, ref.ID)
		ref.DiffFromVersionID = nil
		ref.HasDiff = false
		if err := s.versionRepo.Save(&ref); err != nil {
			return err
		}
	}

	if err := s.deleteVersionBlobs(version); err != nil {
		return err
	}
	if err := s.versionRepo.Delete(id); err != nil {
		return err
	}

	if branch, err := s.branchRepo.Get(version.BranchID); err == nil {
		s.touchDocument(branch.DocumentID)
	}
	klog.V(6).Infof("版本已删除: versionID=%s", id)
	return nil
}

func (s *DocumentService) GetVersion(id string) (*VersionContent, error) {
	version, err := s.versionRepo.Get(id)
	if err != nil {
		return nil, err
	}
	content, err := s.blobs.GetVersionContent(id)
	if err != nil {
		return nil, err
	}
	return &VersionContent{Version: *version, Content: content}, nil
}

func (s *DocumentService) ListVersions(branchID string) ([]VersionContent, error) {
	versions, err := s.versionRepo.GetByBranch(branchID)
	if err != nil {
		return nil, err
	}
	out := make([]VersionContent, 0, len(versions))
	for _, version := range versions {
		content, err := s.blobs.GetVersionContent(version.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, VersionContent{Version: version, Content: content})
	}
	return out, nil
}

func (s *DocumentService) GetLatestVersion(branchID string) (*VersionContent, error) {
	version, err := s.versionRepo.GetLatestForBranch(branchID)
	if err != nil {
		return nil, err
	}
	content, err := s.blobs.GetVersionContent(version.ID)
	if err != nil {
		return nil, err
	}
	return &VersionContent{Version: *version, Content: content}, nil
}

// GetVersionDiff 读取版本与其前驱之间的 diff 文本，没有前驱时返回空串
func (s *DocumentService) GetVersionDiff(id string) (string, error) {
	version, err := s.versionRepo.Get(id)
	if err != nil {
		return "", err
	}
	if version.DiffFromVersionID == nil {
		return "", nil
	}
	return s.blobs.GetDiff(*version.DiffFromVersionID, version.ID)
}

// deleteVersionBlobs 删除版本的正文、自身的 diff 文件以及全部章节的
// 内容文件
func (s *DocumentService) deleteVersionBlobs(version *model.Version) error {
	sections, err := s.sectionRepo.GetByVersion(version.ID)
	if err != nil {
		return err
	}
	for _, section := range sections {
		s.blobs.DeleteSectionContent(section.ID)
	}
	if version.DiffFromVersionID != nil {
		s.blobs.DeleteDiff(*version.DiffFromVersionID, version.ID)
	}
	s.blobs.DeleteVersionContent(version.ID)
	return nil
}
