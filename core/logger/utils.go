package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell session events.
type Logger struct {
	Record LogRecorder

	now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format. It's safe to record from multiple goroutines.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) recordLogType(sessionID string, event LogType) error {
	now := time.Now
	if l.now != nil {
		now = l.now
	}

	le := &LogEntry{}
	le.TimestampMicros = now().UnixNano() / int64(time.Microsecond)
	le.SessionID = sessionID
	le.setLogType(event)

	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.New().String()}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record logs an event for the session.
func (l *SessionLogger) Record(event LogType) error {
	return l.recordLogType(l.sessionID, event)
}
