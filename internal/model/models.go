package model

import (
	"time"
)

// Document 顶层写作项目，归属于一个作者
type Document struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Title          string    `json:"title" gorm:"size:255;not null"`
	AuthorID       string    `json:"author_id" gorm:"size:36;index;not null"`
	Synopsis       string    `json:"synopsis" gorm:"size:2000"`
	CoverImagePath *string   `json:"cover_image_path" gorm:"size:500"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Branches       []Branch  `json:"branches,omitempty" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// Branch 文档内一条独立的内容线，每个文档应有且仅有一个主分支
type Branch struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	DocumentID   string    `json:"document_id" gorm:"size:36;index;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	IsMainBranch bool      `json:"is_main_branch" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Versions     []Version `json:"versions,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`
}

// Version 分支内容在某一时刻的快照。正文与 diff 存放在内容文件中，
// 行内只保留引用关系，内容键即版本 ID。
type Version struct {
	ID                string    `json:"id" gorm:"primaryKey;size:36"`
	BranchID          string    `json:"branch_id" gorm:"size:36;index;not null"`
	Title             string    `json:"title" gorm:"size:255"`
	DiffFromVersionID *string   `json:"diff_from_version_id" gorm:"size:36"`
	HasDiff           bool      `json:"has_diff" gorm:"default:false"`
	IsSyncedToCloud   bool      `json:"is_synced_to_cloud" gorm:"default:false;index"`
	CreatedAt         time.Time `json:"created_at"`
	Sections          []Section `json:"sections,omitempty" gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE"`
}

// Section 版本内有序的内容单元（章节）
type Section struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	VersionID string    `json:"version_id" gorm:"size:36;index;not null"`
	Title     string    `json:"title" gorm:"size:255"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
