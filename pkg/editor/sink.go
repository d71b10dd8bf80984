package editor

import "sync"

// Sink receives the serialized payload after every pass, the way the hidden
// form field does in the browser.
type Sink interface {
	Write(payload string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(payload string)

// Write calls f.
func (f SinkFunc) Write(payload string) { f(payload) }

// Field is a Sink that keeps the last payload written.
type Field struct {
	mu     sync.Mutex
	value  string
	writes int
}

// Write stores payload.
func (f *Field) Write(payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = payload
	f.writes++
}

// Value returns the last payload.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Writes returns how often the field was written.
func (f *Field) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}
