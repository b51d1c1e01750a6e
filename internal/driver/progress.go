package driver

import "time"

// Stage is a step of compiling one template.
type Stage string

const (
	StageExpand   Stage = "expand"
	StageTokenize Stage = "tokenize"
	StageEmit     Stage = "emit"
	StageValidate Stage = "validate"
	// StageWrite stores the generated function in build mode.
	StageWrite Stage = "write"
)

// Status is the state of a template in build mode.
type Status string

const (
	// StatusQueued indicates the template is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the template is in Stage.
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one template.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Build calls it from several
// goroutines at once.
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

func (o Options) report(evt Event) {
	if o.Progress == nil {
		return
	}
	if o.progressName != "" {
		evt.File = o.progressName
	}
	o.Progress.OnEvent(evt)
}
