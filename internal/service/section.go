package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/repository"
)

// SectionContent 章节行与其正文内容的组合读取结果
type SectionContent struct {
	model.Section
	Content string `json:"content"`
}

type CreateSectionRequest struct {
	VersionID string `json:"version_id" binding:"required"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SortOrder int    `json:"sort_order"`
}

func (s *DocumentService) CreateSection(req CreateSectionRequest) (*SectionContent, error) {
	if _, err := s.versionRepo.Get(req.VersionID); err != nil {
		return nil, err
	}

	sectionID := uuid.New().String()
	if _, err := s.blobs.SaveSectionContent(sectionID, req.Content); err != nil {
		return nil, err
	}

	now := time.Now()
	section := &model.Section{
		ID:        sectionID,
		VersionID: req.VersionID,
		Title:     req.Title,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sectionRepo.Create(section); err != nil {
		return nil, err
	}
	return &SectionContent{Section: *section, Content: req.Content}, nil
}

// UpdateSection 更新章节标题、正文与排序，章节不存在时静默跳过。
// 章节重排即对受影响的章节逐个调用本方法写入新的排序值。
func (s *DocumentService) UpdateSection(id, title, content string, sortOrder int) (*SectionContent, error) {
	section, err := s.sectionRepo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := s.blobs.SaveSectionContent(id, content); err != nil {
		return nil, err
	}

	section.Title = title
	section.SortOrder = sortOrder
	section.UpdatedAt = time.Now()
	if err := s.sectionRepo.Save(section); err != nil {
		return nil, err
	}
	return &SectionContent{Section: *section, Content: content}, nil
}

func (s *DocumentService) DeleteSection(id string) error {
	if _, err := s.sectionRepo.Get(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	s.blobs.DeleteSectionContent(id)
	return s.sectionRepo.Delete(id)
}

func (s *DocumentService) GetSection(id string) (*SectionContent, error) {
	section, err := s.sectionRepo.Get(id)
	if err != nil {
		return nil, err
	}
	content, err := s.blobs.GetSectionContent(id)
	if err != nil {
		return nil, err
	}
	return &SectionContent{Section: *section, Content: content}, nil
}

func (s *DocumentService) ListSections(versionID string) ([]SectionContent, error) {
	sections, err := s.sectionRepo.GetByVersion(versionID)
	if err != nil {
		return nil, err
	}
	out := make([]SectionContent, 0, len(sections))
	for _, section := range sections {
		content, err := s.blobs.GetSectionContent(section.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, SectionContent{Section: section, Content: content})
	}
	return out, nil
}
