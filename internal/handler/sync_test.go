package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/pkg/blobstore"
	"github.com/novelhelper/backend/internal/repository"
	syncservice "github.com/novelhelper/backend/internal/service/sync"
)

type mockSyncVersionRepo struct {
	unsynced []model.Version
	synced   map[string]bool
}

// Create 创建版本
func (m *mockSyncVersionRepo) Create(version *model.Version) error { return nil }

// Get 获取版本
func (m *mockSyncVersionRepo) Get(id string) (*model.Version, error) {
	return nil, repository.ErrNotFound
}

// Save 保存版本
func (m *mockSyncVersionRepo) Save(version *model.Version) error { return nil }

// Delete 删除版本
func (m *mockSyncVersionRepo) Delete(id string) error { return nil }

// GetByBranch 按分支获取版本列表
func (m *mockSyncVersionRepo) GetByBranch(branchID string) ([]model.Version, error) {
	return nil, nil
}

// GetLatestForBranch 获取分支最新版本
func (m *mockSyncVersionRepo) GetLatestForBranch(branchID string) (*model.Version, error) {
	return nil, repository.ErrNotFound
}

// GetUnsynced 获取未同步版本
func (m *mockSyncVersionRepo) GetUnsynced() ([]model.Version, error) {
	var out []model.Version
	for _, v := range m.unsynced {
		if !m.synced[v.ID] {
			out = append(out, v)
		}
	}
	return out, nil
}

// MarkSynced 标记版本已同步
func (m *mockSyncVersionRepo) MarkSynced(id string) error {
	if m.synced == nil {
		m.synced = make(map[string]bool)
	}
	m.synced[id] = true
	return nil
}

// GetReferencing 获取以指定版本为 diff 前驱的版本
func (m *mockSyncVersionRepo) GetReferencing(id string) ([]model.Version, error) {
	return nil, nil
}

type recordingTransport struct {
	uploaded []string
}

// Upload 上传文件
func (t *recordingTransport) Upload(localPath, objectKey string) bool {
	t.uploaded = append(t.uploaded, objectKey)
	return true
}

// Download 下载文件
func (t *recordingTransport) Download(objectKey, localPath string) bool { return true }

// Delete 删除远端文件
func (t *recordingTransport) Delete(objectKey string) bool { return true }

// TestSyncHandlerStartAndPollStatus 验证同步接口返回 sync_id 并可轮询到完成状态
func TestSyncHandlerStartAndPollStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	versionRepo := &mockSyncVersionRepo{
		unsynced: []model.Version{
			{ID: "v-1", BranchID: "b-1"},
			{ID: "v-2", BranchID: "b-1"},
		},
	}
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new blobstore error: %v", err)
	}
	transport := &recordingTransport{}
	svc := syncservice.New(versionRepo, blobs, transport)
	handler := NewSyncHandler(svc)
	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var status syncservice.Status
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal response error: %v", err)
	}
	if status.SyncID == "" {
		t.Fatalf("expected non-empty sync_id, got %+v", status)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		req = httptest.NewRequest(http.MethodGet, "/api/sync/status/"+status.SyncID, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
			t.Fatalf("unmarshal status error: %v", err)
		}
		if status.Status == syncservice.ProgressCompleted {
			break
		}
		if status.Status == syncservice.ProgressFailed {
			t.Fatalf("sync failed: %s", status.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("sync did not complete in time, last status: %+v", status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if status.SuccessCount != 2 {
		t.Fatalf("expected 2 synced versions, got %d", status.SuccessCount)
	}
	if len(transport.uploaded) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(transport.uploaded))
	}
	if !versionRepo.synced["v-1"] || !versionRepo.synced["v-2"] {
		t.Fatalf("expected both versions marked synced, got %+v", versionRepo.synced)
	}
}

// TestSyncHandlerStatusNotFound 验证查询不存在的同步任务返回 404
func TestSyncHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new blobstore error: %v", err)
	}
	svc := syncservice.New(&mockSyncVersionRepo{}, blobs, &recordingTransport{})
	handler := NewSyncHandler(svc)
	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status/no-such-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
