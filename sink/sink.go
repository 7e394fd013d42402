package sink

import (
	"strings"
	"sync"
	"time"
)

// SourceEditor tags entries written by the editor itself rather than a task.
const SourceEditor = "editor"

// Kind classifies an entry for styling.
type Kind int

const (
	KindCommand Kind = iota
	KindStdout
	KindStderr
	KindStatus
	KindError
	KindPrompt
	KindDiff
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindStdout:
		return "stdout"
	case KindStderr:
		return "stderr"
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	case KindPrompt:
		return "prompt"
	case KindDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Entry is one append to the sink.
type Entry struct {
	Seq    uint64
	Source string
	Kind   Kind
	Text   string
	Time   time.Time
}

// Sink is an append-only, mutex-protected log of output entries.
type Sink struct {
	mu      sync.Mutex
	entries []Entry
	next    uint64
	size    int
	updates chan struct{}

	// For deterministic timestamps in tests
	now func() time.Time
}

// New creates an empty sink.
func New() *Sink {
	return &Sink{
		next:    1,
		updates: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Append adds text under exclusive access and returns the recorded entry.
// Empty text is ignored and yields a zero Entry.
func (s *Sink) Append(source string, kind Kind, text string) Entry {
	if text == "" {
		return Entry{}
	}

	s.mu.Lock()
	e := Entry{
		Seq:    s.next,
		Source: source,
		Kind:   kind,
		Text:   text,
		Time:   s.now(),
	}
	s.next++
	s.entries = append(s.entries, e)
	s.size += len(text)
	s.mu.Unlock()

	s.notify()
	return e
}

// Clear empties the sink. Sequence numbers keep increasing afterwards.
func (s *Sink) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.size = 0
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the current contents as text.
func (s *Sink) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.Grow(s.size)
	for _, e := range s.entries {
		b.WriteString(e.Text)
	}
	return b.String()
}

// Entries returns a copy of all current entries in append order.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Since returns the entries with a sequence number greater than seq.
func (s *Sink) Since(seq uint64) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Seq <= seq {
			out = make([]Entry, len(s.entries)-i-1)
			copy(out, s.entries[i+1:])
			return out
		}
	}
	out = make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// BySource returns the text appended by one source, in order.
func (s *Sink) BySource(source string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, e := range s.entries {
		if e.Source == source {
			b.WriteString(e.Text)
		}
	}
	return b.String()
}

// Len returns the total length in bytes of the current contents.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Updates returns a channel that receives a value after the sink changes.
// Notifications coalesce: several appends may produce a single receive.
func (s *Sink) Updates() <-chan struct{} {
	return s.updates
}

func (s *Sink) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
