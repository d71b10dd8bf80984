package websocket

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/editor"
	"github.com/digestiflow/flowsheet/pkg/logging"
)

func TestHubLifecycle(t *testing.T) {
	hub := NewHub(logging.NewNopLogger())
	var opened, closed atomic.Int32
	hub.OnOpen = func() { opened.Add(1) }
	hub.OnClose = func() { closed.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	a := NewSession("a", hub, nil, 3)
	b := NewSession("b", hub, nil, 3)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.Eventually(t, func() bool { return hub.SessionCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(Message{Type: TypeNotice, Data: "catalog changed"})
	for _, s := range []*Session{a, b} {
		select {
		case msg := <-s.send:
			assert.Equal(t, TypeNotice, msg.Type)
			assert.False(t, msg.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatalf("session %s did not receive the broadcast", s.ID())
		}
	}

	hub.Unregister(a)
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 5*time.Millisecond)
	select {
	case <-a.closed:
	default:
		t.Fatal("unregistered session is still open")
	}

	cancel()
	<-stopped
	assert.Equal(t, 0, hub.SessionCount())
	assert.Equal(t, int32(2), opened.Load())
	assert.Equal(t, int32(2), closed.Load())

	// the hub is gone; neither call may block
	assert.False(t, hub.Register(NewSession("c", hub, nil, 3)))
	hub.Unregister(b)
}

func TestSessionHandle(t *testing.T) {
	hub := NewHub(logging.NewNopLogger())
	s := NewSession("s1", hub, nil, 1)
	passes := 0
	s.OnPass = func() { passes++ }

	msg := s.Handle(Request{Type: RequestState})
	require.Equal(t, TypeError, msg.Type)

	msg = s.Handle(Request{Type: RequestInit, Snapshot: []barcodes.Record{
		{ID: "u1", Name: "A", Sequence: "ACGT"},
		{ID: "u2", Name: "B", Sequence: "TTTT", Status: barcodes.StatusAdded},
	}})
	require.Equal(t, TypeState, msg.Type)
	assert.Equal(t, "s1", msg.Session)
	st := msg.Data.(StateData)
	assert.Len(t, st.Rows, 3)
	assert.Equal(t, []string{"No change to barcodes"}, st.Preview)
	assert.Equal(t, 0, st.Passes)
	assert.Equal(t, "unchanged", st.Grid[1][editor.ColStatus])

	msg = s.Handle(Request{Type: RequestCells, Changes: []editor.CellChange{{Row: 0, Column: editor.ColName, New: "A2"}}})
	st = msg.Data.(StateData)
	assert.Equal(t, 1, st.Passes)
	assert.Equal(t, []string{`Will update barcode "A". Will set name to "A2".`}, st.Preview)
	assert.Equal(t, "changed", st.Grid[0][editor.ColStatus])

	msg = s.Handle(Request{Type: RequestInsert, At: 0, Count: 1})
	st = msg.Data.(StateData)
	assert.Len(t, st.Rows, 4)
	assert.Equal(t, "A2", st.Rows[1].Name)

	msg = s.Handle(Request{Type: RequestRevComp, Ranges: []editor.Range{{FromRow: 2, ToRow: 2}}})
	st = msg.Data.(StateData)
	assert.Equal(t, "AAAA", st.Rows[2].Sequence)
	assert.Contains(t, st.Preview, `Will update barcode "B". Will set sequence to "AAAA".`)

	msg = s.Handle(Request{Type: RequestRemove, At: 1, Count: 1})
	st = msg.Data.(StateData)
	require.Len(t, st.Changes.Dropped, 1)
	assert.Equal(t, "A", st.Changes.Dropped[0].Name)

	assert.Equal(t, TypeError, s.Handle(Request{Type: "bogus"}).Type)
	assert.Equal(t, st.Passes, passes)
	assert.Equal(t, 4, passes)
}

func TestSessionBounds(t *testing.T) {
	s := NewSession("s2", NewHub(logging.NewNopLogger()), nil, 1)
	tooMany := constants.MaxSpareRows + 1
	assert.Equal(t, TypeError, s.Handle(Request{Type: RequestInit, SpareRows: &tooMany}).Type)

	msg := s.Handle(Request{Type: RequestInit, Snapshot: []barcodes.Record{{ID: "u1", Name: "A", Sequence: "ACGT"}}})
	require.Equal(t, TypeState, msg.Type)

	tests := []struct {
		name string
		req  Request
	}{
		{"row past the limit", Request{Type: RequestCells, Changes: []editor.CellChange{{Row: 2000000, Column: editor.ColName, New: "X"}}}},
		{"negative row", Request{Type: RequestCells, Changes: []editor.CellChange{{Row: -1, Column: editor.ColName, New: "X"}}}},
		{"huge insert", Request{Type: RequestInsert, At: 0, Count: math.MaxInt}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, TypeError, s.Handle(tt.req).Type)
		})
	}

	msg = s.Handle(Request{Type: RequestRevComp, Ranges: []editor.Range{{FromRow: 0, ToRow: math.MaxInt}}})
	require.Equal(t, TypeState, msg.Type)
	st := msg.Data.(StateData)
	assert.Len(t, st.Rows, 2)
	assert.Len(t, st.Grid, 2)
	assert.Equal(t, "ACGT", st.Rows[0].Sequence)
	assert.Equal(t, 1, st.Passes)
}
