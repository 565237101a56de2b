package runner

// Status captures the progress state of a file.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusChecking Status = "checking"
	StatusDone     Status = "done"
	// StatusError: the file was checked and reported at least one error,
	// or could not be checked at all.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File     string
	Status   Status
	Errors   int
	Warnings int
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
