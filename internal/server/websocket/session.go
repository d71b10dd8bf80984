package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/editor"
	"github.com/digestiflow/flowsheet/pkg/logging"
)

// Message types sent to the peer.
const (
	TypeState  = "state"
	TypeError  = "error"
	TypeNotice = "notice"
)

// Request types accepted from the peer.
const (
	RequestInit    = "init"
	RequestCells   = "set_cells"
	RequestInsert  = "insert_rows"
	RequestRemove  = "remove_rows"
	RequestRevComp = "revcomp"
	RequestState   = "state"
)

// Message is a server to client message.
type Message struct {
	Type      string    `json:"type"`
	Session   string    `json:"session,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Request is a client to server message. Only the fields of its type are
// read.
type Request struct {
	Type      string              `json:"type"`
	Snapshot  []barcodes.Record   `json:"snapshot,omitempty"`
	SpareRows *int                `json:"spare_rows,omitempty"`
	Changes   []editor.CellChange `json:"changes,omitempty"`
	At        int                 `json:"at,omitempty"`
	Count     int                 `json:"count,omitempty"`
	Ranges    []editor.Range      `json:"ranges,omitempty"`
}

// StateData is the payload of a state message.
type StateData struct {
	editor.State
	Grid   [][]string `json:"grid"`
	Passes int        `json:"passes"`
}

// Session is one websocket connection editing one barcode set.
type Session struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan Message
	closed    chan struct{}
	closeOnce sync.Once
	spare     int
	logger    *zerolog.Logger

	grid   *editor.Table
	editor *editor.BarcodeSetEditor

	// OnPass is called once for every reconciliation pass the session runs.
	OnPass func()
}

// NewSession creates a session on conn. spare is the default number of
// blank rows kept below the data; init requests may override it.
func NewSession(id string, hub *Hub, conn *websocket.Conn, spare int) *Session {
	return &Session{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, 256),
		closed: make(chan struct{}),
		spare:  spare,
		logger: hub.logger,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Handle runs one request against the session's editor and returns the
// reply.
func (s *Session) Handle(req Request) Message {
	if msg := checkBounds(req); msg != "" {
		return s.fail(msg)
	}
	if req.Type == RequestInit {
		spare := s.spare
		if req.SpareRows != nil {
			spare = *req.SpareRows
		}
		s.grid = editor.NewTable(editor.NumColumns)
		s.editor = editor.NewBarcodeSetEditor(
			s.grid,
			barcodes.NewSnapshot(req.Snapshot),
			nil,
			editor.WithSpareRows(spare),
			editor.WithLogger(s.logger),
		)
		return s.state()
	}
	if s.editor == nil {
		return s.fail("session is not initialized, send an init request first")
	}

	before := s.editor.Passes()
	switch req.Type {
	case RequestCells:
		s.grid.SetCells(req.Changes)
	case RequestInsert:
		s.grid.InsertRows(req.At, req.Count)
	case RequestRemove:
		s.grid.RemoveRows(req.At, req.Count)
	case RequestRevComp:
		s.editor.ReverseComplement(req.Ranges...)
	case RequestState:
	default:
		return s.fail("unknown request type " + req.Type)
	}
	if s.OnPass != nil {
		for range s.editor.Passes() - before {
			s.OnPass()
		}
	}
	return s.state()
}

// checkBounds rejects requests that would grow the grid past MaxRows.
func checkBounds(req Request) string {
	if req.SpareRows != nil && (*req.SpareRows < 0 || *req.SpareRows > constants.MaxSpareRows) {
		return fmt.Sprintf("spare_rows must be between 0 and %d", constants.MaxSpareRows)
	}
	if len(req.Snapshot) > constants.MaxRows {
		return fmt.Sprintf("snapshot has more than %d rows", constants.MaxRows)
	}
	for _, c := range req.Changes {
		if c.Row < 0 || c.Row >= constants.MaxRows {
			return fmt.Sprintf("row %d is outside 0..%d", c.Row, constants.MaxRows-1)
		}
	}
	if req.Type == RequestInsert && (req.Count < 0 || req.Count > constants.MaxRows) {
		return fmt.Sprintf("count must be between 0 and %d", constants.MaxRows)
	}
	return ""
}

func (s *Session) state() Message {
	return Message{
		Type:      TypeState,
		Session:   s.id,
		Timestamp: time.Now(),
		Data: StateData{
			State:  s.editor.State(),
			Grid:   s.grid.Data(),
			Passes: s.editor.Passes(),
		},
	}
}

func (s *Session) fail(msg string) Message {
	return Message{
		Type:      TypeError,
		Session:   s.id,
		Timestamp: time.Now(),
		Data:      map[string]string{"message": msg},
	}
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// ReadPump reads requests from the connection and queues the replies. The
// editor is owned by this goroutine.
func (s *Session) ReadPump() {
	defer func() {
		s.hub.Unregister(s)
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(constants.MaxRequestBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	logger := logging.OrNop(s.logger).With().Str("session_id", s.id).Logger()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error().Err(err).Msg("WebSocket read error")
			}
			return
		}

		var (
			req   Request
			reply Message
		)
		if err := json.Unmarshal(data, &req); err != nil {
			reply = s.fail("malformed request: " + err.Error())
		} else {
			reply = s.Handle(req)
		}

		select {
		case s.send <- reply:
		case <-s.closed:
			return
		}
	}
}

// WritePump writes queued messages to the connection and keeps it alive
// with pings.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-s.closed:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
			return

		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
