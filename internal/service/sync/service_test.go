package syncservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/novelhelper/backend/config"
	"github.com/novelhelper/backend/internal/model"
	"github.com/novelhelper/backend/internal/pkg/blobstore"
	"github.com/novelhelper/backend/internal/pkg/database"
	"github.com/novelhelper/backend/internal/repository"
	"github.com/novelhelper/backend/internal/service"
)

type fakeTransport struct {
	failKeys map[string]bool
	uploaded []string
	delay    time.Duration
}

func (f *fakeTransport) Upload(localPath, objectKey string) bool {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failKeys[objectKey] {
		return false
	}
	f.uploaded = append(f.uploaded, objectKey)
	return true
}

func (f *fakeTransport) Download(objectKey, destPath string) bool { return true }

func (f *fakeTransport) Delete(objectKey string) bool { return true }

func newTestEnv(t *testing.T) (*service.DocumentService, repository.VersionRepository, *blobstore.Store) {
	t.Helper()
	db, err := database.InitDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new blobstore error: %v", err)
	}
	versionRepo := repository.NewVersionRepository(db)
	docService := service.NewDocumentService(
		&config.Config{},
		repository.NewDocumentRepository(db),
		repository.NewBranchRepository(db),
		versionRepo,
		repository.NewSectionRepository(db),
		blobs,
	)
	return docService, versionRepo, blobs
}

func seedVersions(t *testing.T, docService *service.DocumentService, count int) []string {
	t.Helper()
	doc, err := docService.CreateDocument(service.CreateDocumentRequest{Title: "Draft", AuthorID: "a"})
	if err != nil {
		t.Fatalf("create document error: %v", err)
	}
	main, err := docService.GetMainBranch(doc.ID)
	if err != nil {
		t.Fatalf("main branch error: %v", err)
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		version, err := docService.CreateVersion(service.CreateVersionRequest{
			BranchID: main.ID,
			Title:    "v",
			Content:  "content",
		})
		if err != nil {
			t.Fatalf("create version error: %v", err)
		}
		ids = append(ids, version.ID)
		time.Sleep(2 * time.Millisecond)
	}
	return ids
}

func collect(t *testing.T, ch <-chan Progress) []Progress {
	t.Helper()
	var events []Progress
	timeout := time.After(5 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, p)
		case <-timeout:
			t.Fatalf("timed out waiting for progress events, got %v", events)
		}
	}
}

func TestSyncNoUnsyncedItems(t *testing.T) {
	_, versionRepo, blobs := newTestEnv(t)
	svc := New(versionRepo, blobs, &fakeTransport{})

	events := collect(t, svc.SyncToCloud(context.Background()))

	if len(events) != 2 {
		t.Fatalf("expected exactly [Started, Completed], got %v", events)
	}
	if events[0].Kind != ProgressStarted {
		t.Fatalf("expected Started first, got %v", events[0])
	}
	if events[1].Kind != ProgressCompleted || events[1].SuccessCount != 0 {
		t.Fatalf("expected Completed(0), got %v", events[1])
	}
}

func TestSyncAllSucceed(t *testing.T) {
	docService, versionRepo, blobs := newTestEnv(t)
	seedVersions(t, docService, 3)

	transport := &fakeTransport{}
	svc := New(versionRepo, blobs, transport)
	events := collect(t, svc.SyncToCloud(context.Background()))

	if events[0].Kind != ProgressStarted {
		t.Fatalf("expected Started first, got %v", events[0])
	}
	last := events[len(events)-1]
	if last.Kind != ProgressCompleted || last.SuccessCount != 3 {
		t.Fatalf("expected Completed(3), got %v", last)
	}

	current := 0
	for _, e := range events {
		if e.Kind != ProgressInProgress {
			continue
		}
		if e.Total != 3 {
			t.Fatalf("expected constant total 3, got %v", e)
		}
		if e.Current <= current {
			t.Fatalf("expected strictly increasing current, got %v after %d", e, current)
		}
		current = e.Current
	}
	if current != 3 {
		t.Fatalf("expected current to end at 3, got %d", current)
	}

	unsynced, err := versionRepo.GetUnsynced()
	if err != nil {
		t.Fatalf("get unsynced error: %v", err)
	}
	if len(unsynced) != 0 {
		t.Fatalf("expected all versions synced, got %d unsynced", len(unsynced))
	}
	// 上传包括正文与 diff 文件
	if len(transport.uploaded) != 5 {
		t.Fatalf("expected 3 content + 2 diff uploads, got %v", transport.uploaded)
	}
}

func TestSyncPartialFailure(t *testing.T) {
	docService, versionRepo, blobs := newTestEnv(t)
	ids := seedVersions(t, docService, 3)

	transport := &fakeTransport{failKeys: map[string]bool{
		"versions/content/" + ids[1] + ".txt": true,
	}}
	svc := New(versionRepo, blobs, transport)
	events := collect(t, svc.SyncToCloud(context.Background()))

	last := events[len(events)-1]
	if last.Kind != ProgressCompleted || last.SuccessCount != 2 {
		t.Fatalf("expected Completed(2), got %v", last)
	}

	unsynced, err := versionRepo.GetUnsynced()
	if err != nil {
		t.Fatalf("get unsynced error: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].ID != ids[1] {
		t.Fatalf("expected only the failed version unsynced, got %+v", unsynced)
	}
}

type failingVersionRepo struct {
	repository.VersionRepository
	scanErr error
	markErr error
}

func (f *failingVersionRepo) GetUnsynced() ([]model.Version, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.VersionRepository.GetUnsynced()
}

func (f *failingVersionRepo) MarkSynced(id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	return f.VersionRepository.MarkSynced(id)
}

func TestSyncScanFailureIsFatal(t *testing.T) {
	_, versionRepo, blobs := newTestEnv(t)
	failing := &failingVersionRepo{VersionRepository: versionRepo, scanErr: errors.New("db gone")}
	svc := New(failing, blobs, &fakeTransport{})

	events := collect(t, svc.SyncToCloud(context.Background()))

	if len(events) != 2 {
		t.Fatalf("expected [Started, Failed], got %v", events)
	}
	if events[1].Kind != ProgressFailed || events[1].Error != "db gone" {
		t.Fatalf("expected Failed(db gone), got %v", events[1])
	}
}

func TestSyncMarkFailureIsFatal(t *testing.T) {
	docService, versionRepo, blobs := newTestEnv(t)
	seedVersions(t, docService, 2)

	failing := &failingVersionRepo{VersionRepository: versionRepo, markErr: errors.New("write failed")}
	svc := New(failing, blobs, &fakeTransport{})

	events := collect(t, svc.SyncToCloud(context.Background()))
	last := events[len(events)-1]
	if last.Kind != ProgressFailed {
		t.Fatalf("expected Failed terminal event, got %v", last)
	}
}

func TestSyncCancellation(t *testing.T) {
	docService, versionRepo, blobs := newTestEnv(t)
	seedVersions(t, docService, 5)

	ctx, cancel := context.WithCancel(context.Background())
	svc := New(versionRepo, blobs, &fakeTransport{delay: 10 * time.Millisecond})
	ch := svc.SyncToCloud(ctx)

	if p := <-ch; p.Kind != ProgressStarted {
		t.Fatalf("expected Started, got %v", p)
	}
	if p := <-ch; p.Kind != ProgressInProgress {
		t.Fatalf("expected InProgress, got %v", p)
	}
	cancel()

	// 不再消费，发送端应在取消后退出并关闭通道
	time.Sleep(200 * time.Millisecond)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected channel closed after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected channel closed after cancellation")
	}
}

// TestGetStatusReturnsSnapshot 验证 Start 与 GetStatus 返回的是状态副本，
// 后台同步写入不会改动调用方已拿到的快照，并发轮询也不与写入冲突
func TestGetStatusReturnsSnapshot(t *testing.T) {
	docService, versionRepo, blobs := newTestEnv(t)
	seedVersions(t, docService, 3)

	svc := New(versionRepo, blobs, &fakeTransport{delay: 10 * time.Millisecond})
	status, err := svc.Start()
	if err != nil {
		t.Fatalf("start error: %v", err)
	}
	if status.Status != ProgressStarted {
		t.Fatalf("expected started snapshot, got %+v", status)
	}

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for {
				got, ok := svc.GetStatus(status.SyncID)
				if !ok {
					return
				}
				if got.Status == ProgressCompleted || got.Status == ProgressFailed {
					return
				}
				time.Sleep(time.Millisecond)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("concurrent pollers did not finish")
		}
	}

	final, ok := svc.GetStatus(status.SyncID)
	if !ok {
		t.Fatalf("expected status registered")
	}
	if final.Status != ProgressCompleted || final.SuccessCount != 3 {
		t.Fatalf("expected completed status with 3 successes, got %+v", final)
	}
	if status.Status != ProgressStarted || status.SuccessCount != 0 {
		t.Fatalf("start snapshot should be unaffected by background writes, got %+v", status)
	}
	final.SuccessCount = 0
	again, _ := svc.GetStatus(status.SyncID)
	if again.SuccessCount != 3 {
		t.Fatalf("mutating a returned snapshot should not affect the stored status")
	}
}

func TestStartAndPollStatus(t *testing.T) {
	docService, versionRepo, blobs := newTestEnv(t)
	seedVersions(t, docService, 2)

	svc := New(versionRepo, blobs, &fakeTransport{})
	status, err := svc.Start()
	if err != nil {
		t.Fatalf("start error: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		got, ok := svc.GetStatus(status.SyncID)
		if !ok {
			t.Fatalf("expected status registered")
		}
		if got.Status == ProgressCompleted {
			if got.SuccessCount != 2 {
				t.Fatalf("expected success count 2, got %d", got.SuccessCount)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("sync did not complete, status=%+v", got)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
