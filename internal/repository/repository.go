package repository

import (
	"errors"

	"github.com/novelhelper/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type DocumentRepository interface {
	Create(doc *model.Document) error
	Get(id string) (*model.Document, error)
	Save(doc *model.Document) error
	Delete(id string) error
	List() ([]model.Document, error)
	Search(query string) ([]model.Document, error)
}

type BranchRepository interface {
	Create(branch *model.Branch) error
	Get(id string) (*model.Branch, error)
	Save(branch *model.Branch) error
	Delete(id string) error
	GetByDocument(documentID string) ([]model.Branch, error)
	GetMainBranch(documentID string) (*model.Branch, error)
}

type VersionRepository interface {
	Create(version *model.Version) error
	Get(id string) (*model.Version, error)
	Save(version *model.Version) error
	Delete(id string) error
	GetByBranch(branchID string) ([]model.Version, error)
	GetLatestForBranch(branchID string) (*model.Version, error)
	GetUnsynced() ([]model.Version, error)
	MarkSynced(id string) error
	GetReferencing(id string) ([]model.Version, error)
}

type SectionRepository interface {
	Create(section *model.Section) error
	Get(id string) (*model.Section, error)
	Save(section *model.Section) error
	Delete(id string) error
	GetByVersion(versionID string) ([]model.Section, error)
	DeleteByVersion(versionID string) error
}
