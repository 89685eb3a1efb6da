package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/novelhelper/backend/config"
	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/pkg/blobstore"
	"github.com/novelhelper/backend/internal/repository"
	"k8s.io/klog/v2"
)

// DocumentService 文档存储的编排层。它是唯一同时操作元数据库与内容文件
// 的组件，负责维持两者的一致性：内容先落盘，元数据行后写入；删除元数据
// 行时清理对应的内容文件。
type DocumentService struct {
	cfg         *config.Config
	docRepo     repository.DocumentRepository
	branchRepo  repository.BranchRepository
	versionRepo repository.VersionRepository
	sectionRepo repository.SectionRepository
	blobs       *blobstore.Store
}

func NewDocumentService(
	cfg *config.Config,
	docRepo repository.DocumentRepository,
	branchRepo repository.BranchRepository,
	versionRepo repository.VersionRepository,
	sectionRepo repository.SectionRepository,
	blobs *blobstore.Store,
) *DocumentService {
	return &DocumentService{
		cfg:         cfg,
		docRepo:     docRepo,
		branchRepo:  branchRepo,
		versionRepo: versionRepo,
		sectionRepo: sectionRepo,
		blobs:       blobs,
	}
}

type CreateDocumentRequest struct {
	Title    string `json:"title" binding:"required"`
	AuthorID string `json:"author_id" binding:"required"`
	Synopsis string `json:"synopsis"`
}

// CreateDocument 创建文档，同时自动创建主分支。首个版本在作者第一次
// 保存时产生，因此它的 diff 前驱引用为空。
func (s *DocumentService) CreateDocument(req CreateDocumentRequest) (*model.Document, error) {
	now := time.Now()
	doc := &model.Document{
		ID:        uuid.New().String(),
		Title:     req.Title,
		AuthorID:  req.AuthorID,
		Synopsis:  req.Synopsis,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}

	if _, err := s.createBranch(doc.ID, "Main Branch", true); err != nil {
		return nil, err
	}

	klog.V(6).Infof("文档已创建: docID=%s, title=%s", doc.ID, doc.Title)
	return doc, nil
}

// UpdateDocument 更新文档标题与简介，文档不存在时静默跳过
func (s *DocumentService) UpdateDocument(id, title, synopsis string) (*model.Document, error) {
	doc, err := s.docRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	doc.Title = title
	doc.Synopsis = synopsis
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument 删除文档。元数据行由外键级联清理，内容文件无法级联，
// 必须先递归删除所有后代的内容文件。
func (s *DocumentService) DeleteDocument(id string) error {
	if _, err := s.docRepo.Get(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	branches, err := s.branchRepo.GetByDocument(id)
	if err != nil {
		return err
	}
	for _, branch := range branches {
		if err := s.deleteBranchBlobs(branch.ID); err != nil {
			return err
		}
	}

	if err := s.docRepo.Delete(id); err != nil {
		return err
	}
	klog.V(6).Infof("文档已删除: docID=%s", id)
	return nil
}

func (s *DocumentService) GetDocument(id string) (*model.Document, error) {
	return s.docRepo.Get(id)
}

func (s *DocumentService) ListDocuments() ([]model.Document, error) {
	return s.docRepo.List()
}

func (s *DocumentService) SearchDocuments(query string) ([]model.Document, error) {
	return s.docRepo.Search(query)
}

// touchDocument 在分支或版本变更后刷新文档的更新时间
func (s *DocumentService) touchDocument(documentID string) {
	doc, err := s.docRepo.Get(documentID)
	if err != nil {
		return
	}
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Save(doc); err != nil {
		klog.V(6).Infof("刷新文档更新时间失败: docID=%s, error=%v", documentID, err)
	}
}
