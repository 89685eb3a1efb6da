package blobstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store 管理正文内容的平面文件存储。元数据行只保存引用，
// 版本、章节正文与版本间 diff 均以单文件形式落盘。
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// SaveVersionContent 保存版本正文，返回文件路径
func (s *Store) SaveVersionContent(versionID, content string) (string, error) {
	return s.write(versionFilename(versionID), content)
}

// GetVersionContent 读取版本正文，文件不存在时返回空串
func (s *Store) GetVersionContent(versionID string) (string, error) {
	return s.read(versionFilename(versionID))
}

func (s *Store) DeleteVersionContent(versionID string) bool {
	return s.remove(versionFilename(versionID))
}

// VersionContentPath 返回版本正文文件路径，供上传使用
func (s *Store) VersionContentPath(versionID string) string {
	return filepath.Join(s.dir, versionFilename(versionID))
}

func (s *Store) SaveSectionContent(sectionID, content string) (string, error) {
	return s.write(sectionFilename(sectionID), content)
}

func (s *Store) GetSectionContent(sectionID string) (string, error) {
	return s.read(sectionFilename(sectionID))
}

func (s *Store) DeleteSectionContent(sectionID string) bool {
	return s.remove(sectionFilename(sectionID))
}

func (s *Store) SectionContentPath(sectionID string) string {
	return filepath.Join(s.dir, sectionFilename(sectionID))
}

// SaveDiff 保存两个版本之间的 diff，返回文件路径
func (s *Store) SaveDiff(fromVersionID, toVersionID, diff string) (string, error) {
	return s.write(diffFilename(fromVersionID, toVersionID), diff)
}

func (s *Store) GetDiff(fromVersionID, toVersionID string) (string, error) {
	return s.read(diffFilename(fromVersionID, toVersionID))
}

func (s *Store) DeleteDiff(fromVersionID, toVersionID string) bool {
	return s.remove(diffFilename(fromVersionID, toVersionID))
}

func (s *Store) DiffPath(fromVersionID, toVersionID string) string {
	return filepath.Join(s.dir, diffFilename(fromVersionID, toVersionID))
}

func (s *Store) write(name, content string) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (s *Store) remove(name string) bool {
	return os.Remove(filepath.Join(s.dir, name)) == nil
}

func versionFilename(versionID string) string {
	return fmt.Sprintf("version_%s.txt", versionID)
}

func sectionFilename(sectionID string) string {
	return fmt.Sprintf("section_%s.txt", sectionID)
}

func diffFilename(fromVersionID, toVersionID string) string {
	return fmt.Sprintf("diff_%s_%s.diff", fromVersionID, toVersionID)
}
