package roi

// Event is a marker invocation seen by a Recorder.
type Event int

const (
	EventStart Event = iota
	EventEnd
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Recorder is a Marker that remembers the order of its calls and optionally
// forwards them to another marker.
type Recorder struct {
	Next   Marker
	Events []Event
}

// NewRecorder wraps next. A nil next records only.
func NewRecorder(next Marker) *Recorder {
	return &Recorder{Next: next}
}

// Start records the event and forwards it.
func (r *Recorder) Start() {
	r.Events = append(r.Events, EventStart)
	if r.Next != nil {
		r.Next.Start()
	}
}

// End records the event and forwards it.
func (r *Recorder) End() {
	r.Events = append(r.Events, EventEnd)
	if r.Next != nil {
		r.Next.End()
	}
}
