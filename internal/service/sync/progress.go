package syncservice

import "fmt"

// ProgressKind 同步进度事件的判别标签
type ProgressKind string

const (
	ProgressStarted    ProgressKind = "started"
	ProgressInProgress ProgressKind = "in_progress"
	ProgressCompleted  ProgressKind = "completed"
	ProgressFailed     ProgressKind = "failed"
)

// Progress 同步进度事件。一次同步产生的事件序列固定为
// Started → (InProgress)* → (Completed | Failed)，InProgress 的
// Current 严格递增且 Total 不变。
type Progress struct {
	Kind         ProgressKind `json:"kind"`
	Current      int          `json:"current,omitempty"`
	Total        int          `json:"total,omitempty"`
	SuccessCount int          `json:"success_count,omitempty"`
	Error        string       `json:"error,omitempty"`
}

func Started() Progress {
	return Progress{Kind: ProgressStarted}
}

func InProgress(current, total int) Progress {
	return Progress{Kind: ProgressInProgress, Current: current, Total: total}
}

func Completed(successCount int) Progress {
	return Progress{Kind: ProgressCompleted, SuccessCount: successCount}
}

func Failed(err string) Progress {
	return Progress{Kind: ProgressFailed, Error: err}
}

func (p Progress) String() string {
	switch p.Kind {
	case ProgressStarted:
		return "started"
	case ProgressInProgress:
		return fmt.Sprintf("in_progress %d/%d", p.Current, p.Total)
	case ProgressCompleted:
		return fmt.Sprintf("completed success=%d", p.SuccessCount)
	case ProgressFailed:
		return fmt.Sprintf("failed: %s", p.Error)
	default:
		return string(p.Kind)
	}
}
