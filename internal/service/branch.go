package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/repository"
	"k8s.io/klog/v2"
)

type CreateBranchRequest struct {
	DocumentID    string `json:"document_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	IsMainBranch  bool   `json:"is_main_branch"`
	SourceContent string `json:"source_content"`
}

// CreateBranch 在文档下创建分支。SourceContent 非空时表示从既有内容
// 分叉，新分支会以该内容生成一个初始版本。
func (s *DocumentService) CreateBranch(req CreateBranchRequest) (*model.Branch, error) {
	if _, err := s.docRepo.Get(req.DocumentID); err != nil {
		return nil, err
	}

	branch, err := s.createBranch(req.DocumentID, req.Name, req.IsMainBranch)
	if err != nil {
		return nil, err
	}

	if req.SourceContent != "" {
		if _, err := s.CreateVersion(CreateVersionRequest{
			BranchID: branch.ID,
			Title:    "Initial Version",
			Content:  req.SourceContent,
		}); err != nil {
			return nil, err
		}
	} else {
		s.touchDocument(req.DocumentID)
	}

	klog.V(6).Infof("分支已创建: branchID=%s, docID=%s, main=%v", branch.ID, req.DocumentID, req.IsMainBranch)
	return branch, nil
}

func (s *DocumentService) createBranch(documentID, name string, isMainBranch bool) (*model.Branch, error) {
	now := time.Now()
	branch := &model.Branch{
		ID:           uuid.New().String(),
		DocumentID:   documentID,
		Name:         name,
		IsMainBranch: isMainBranch,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.branchRepo.Create(branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// UpdateBranch 重命名分支，分支不存在时静默跳过
func (s *DocumentService) UpdateBranch(id, name string) (*model.Branch, error) {
	branch, err := s.branchRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	branch.Name = name
	branch.UpdatedAt = time.Now()
	if err := s.branchRepo.Save(branch); err != nil {
		return nil, err
	}
	s.touchDocument(branch.DocumentID)
	return branch, nil
}

// DeleteBranch 删除分支及其全部版本的内容文件
func (s *DocumentService) DeleteBranch(id string) error {
	branch, err := s.branchRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.deleteBranchBlobs(id); err != nil {
		return err
	}
	if err := s.branchRepo.Delete(id); err != nil {
		return err
	}
	s.touchDocument(branch.DocumentID)
	klog.V(6).Infof("分支已删除: branchID=%s", id)
	return nil
}

func (s *DocumentService) GetBranch(id string) (*model.Branch, error) {
	return s.branchRepo.Get(id)
}

func (s *DocumentService) ListBranches(documentID string) ([]model.Branch, error) {
	return s.branchRepo.GetByDocument(documentID)
}

func (s *DocumentService) GetMainBranch(documentID string) (*model.Branch, error) {
	return s.branchRepo.GetMainBranch(documentID)
}

// deleteBranchBlobs 清理分支下所有版本与章节的内容文件。
// 只删文件，元数据行交给调用方的级联删除。
func (s *DocumentService) deleteBranchBlobs(branchID string) error {
	versions, err := s.versionRepo.GetByBranch(branchID)
	if err != nil {
		return err
	}
	for _, version := range versions {
		if err := s.deleteVersionBlobs(&version); err != nil {
			return err
		}
	}
	return nil
}
