package syncservice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/pkg/blobstore"
	"github.com/novelhelper/backend/internal/repository"
	"k8s.io/klog/v2"
)

// Status 一次同步运行的可轮询快照，由进度事件流镜像而来
type Status struct {
	SyncID       string       `json:"sync_id"`
	Status       ProgressKind `json:"status"`
	Current      int          `json:"current"`
	Total        int          `json:"total"`
	SuccessCount int          `json:"success_count"`
	Error        string       `json:"error,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Service 同步引擎。扫描未同步的版本，将正文与 diff 文件逐个上传到
// 远端对象存储，全部上传成功后才把版本标记为已同步。
type Service struct {
	versionRepo repository.VersionRepository
	blobs       *blobstore.Store
	transport   Transport
	statusMap   map[string]*Status
	mutex       sync.RWMutex
}

func New(versionRepo repository.VersionRepository, blobs *blobstore.Store, transport Transport) *Service {
	return &Service{
		versionRepo: versionRepo,
		blobs:       blobs,
		transport:   transport,
		statusMap:   make(map[string]*Status),
	}
}

// SyncToCloud 启动一次同步，返回进度事件流。事件顺序固定为
// Started → (InProgress)* → (Completed | Failed)。消费方取消 ctx
// 即停止同步，通道随之关闭。
func (s *Service) SyncToCloud(ctx context.Context) <-chan Progress {
	ch := make(chan Progress)
	go s.run(ctx, ch, nil)
	return ch
}

// Start 以后台方式启动同步并登记可轮询的状态快照。同步运行在独立的
// 后台 context 中，不随发起请求结束而取消；需要流式进度与取消语义时
// 使用 SyncToCloud。返回的是快照副本，后台写入只发生在 statusMap
// 内的实例上。
func (s *Service) Start() (*Status, error) {
	status := &Status{
		SyncID:    s.newSyncID(),
		Status:    ProgressStarted,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.setStatus(status)
	snapshot := *status

	ch := make(chan Progress)
	go s.run(context.Background(), ch, status)
	go func() {
		for range ch {
		}
	}()

	klog.V(6).Infof("同步任务已创建: syncID=%s", snapshot.SyncID)
	return &snapshot, nil
}

// GetStatus 返回指定同步任务的状态快照副本
func (s *Service) GetStatus(syncID string) (*Status, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	status, ok := s.statusMap[syncID]
	if !ok {
		return nil, false
	}
	snapshot := *status
	return &snapshot, true
}

func (s *Service) run(ctx context.Context, ch chan<- Progress, status *Status) {
	defer close(ch)

	emit := func(p Progress) bool {
		s.mirror(status, p)
		select {
		case ch <- p:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(Started()) {
		return
	}

	if s.transport == nil {
		emit(Failed("未配置同步目标服务器"))
		return
	}

	versions, err := s.versionRepo.GetUnsynced()
	if err != nil {
		klog.Errorf("[sync] 扫描未同步版本失败: %v", err)
		emit(Failed(err.Error()))
		return
	}

	total := len(versions)
	if total == 0 {
		emit(Completed(0))
		return
	}

	successCount := 0
	for i, version := range versions {
		if !emit(InProgress(i+1, total)) {
			return
		}

		if !s.uploadVersion(&version) {
			klog.V(6).Infof("[sync] 版本上传失败，跳过: versionID=%s", version.ID)
			continue
		}

		if err := s.versionRepo.MarkSynced(version.ID); err != nil {
			klog.Errorf("[sync] 标记同步状态失败: versionID=%s, error=%v", version.ID, err)
			emit(Failed(err.Error()))
			return
		}
		successCount++
	}

	emit(Completed(successCount))
}

// uploadVersion 上传一个版本的全部文件。版本只有在正文与（存在前驱
// 引用时的）diff 都上传成功后才算同步成功。
func (s *Service) uploadVersion(version *model.Version) bool {
	contentKey := fmt.Sprintf("versions/content/%s.txt", version.ID)
	if !s.transport.Upload(s.blobs.VersionContentPath(version.ID), contentKey) {
		return false
	}

	if version.HasDiff && version.DiffFromVersionID != nil {
		diffKey := fmt.Sprintf("versions/diffs/%s_%s.diff", *version.DiffFromVersionID, version.ID)
		if !s.transport.Upload(s.blobs.DiffPath(*version.DiffFromVersionID, version.ID), diffKey) {
			return false
		}
	}
	return true
}

func (s *Service) mirror(status *Status, p Progress) {
	if status == nil {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	status.Status = p.Kind
	status.UpdatedAt = time.Now()
	switch p.Kind {
	case ProgressInProgress:
		status.Current = p.Current
		status.Total = p.Total
	case ProgressCompleted:
		status.SuccessCount = p.SuccessCount
	case ProgressFailed:
		status.Error = p.Error
	}
}

func (s *Service) setStatus(status *Status) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.statusMap[status.SyncID] = status
}

func (s *Service) newSyncID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sync-%d", time.Now().UnixNano())
	}
	return "sync-" + hex.EncodeToString(buf)
}
