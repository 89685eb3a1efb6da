package eventbus

type DocEventType string

const (
	DocEventCreated DocEventType = "Created"
	DocEventUpdated DocEventType = "Updated"
	DocEventDeleted DocEventType = "Deleted"
)

type DocEvent struct {
	Type       DocEventType
	DocumentID string
	VersionID  string
}

type DocEventHandler = Handler[DocEvent]
type DocEventBus = Bus[DocEventType, DocEvent]

func NewDocEventBus() *DocEventBus {
	return NewBus[DocEventType, DocEvent]()
}
