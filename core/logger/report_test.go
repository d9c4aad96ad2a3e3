package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewJsonLinesLogRecorder(buf)
	log.now = func() time.Time {
		return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	session := log.NewSession()
	assert.NotEmpty(t, session.SessionID())

	replayed := 2
	require.NoError(t, session.Record(&RunCommand{Command: []string{"whereami"}}))
	require.NoError(t, session.Record(&RunCommand{Command: []string{"start", "ls"}, ReplayOf: &replayed}))
	require.NoError(t, session.Record(&InvalidCommand{Raw: "oops", Name: "oops"}))
	require.NoError(t, session.Record(&ProcessStarted{Pid: 10, Path: "sleep", Argv: []string{"sleep", "1"}, Background: true}))
	require.NoError(t, session.Record(&ProcessExited{Pid: 10, ExitCode: 0, Background: true}))
	require.NoError(t, session.Record(&ProcessSignaled{Pid: 99}))
	require.NoError(t, (&SessionLogger{Logger: log}).Record(&HistoryFailure{Op: "save", Error: "read-only"}))

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 7)

	assert.Equal(t, session.SessionID(), entries[0].SessionID)
	assert.Equal(t, "", entries[6].SessionID)
	assert.Equal(t, int64(1136171045000000), entries[0].TimestampMicros)
	assert.Equal(t, &RunCommand{Command: []string{"whereami"}}, entries[0].GetLogType())
	assert.IsType(t, &ProcessSignaled{}, entries[5].GetLogType())
}

func TestReport(t *testing.T) {
	replayed := 0
	var r Report
	for _, le := range []*LogEntry{
		{SessionID: "a", RunCommand: &RunCommand{Command: []string{"background", "sleep", "1"}}},
		{SessionID: "a", RunCommand: &RunCommand{Command: []string{"background", "sleep", "1"}, ReplayOf: &replayed}},
		{SessionID: "a", ProcessStarted: &ProcessStarted{Pid: 1, Argv: []string{"sleep", "1"}, Background: true}},
		{SessionID: "a", ProcessStarted: &ProcessStarted{Pid: 2, Argv: []string{"ls"}}},
		{SessionID: "a", ProcessExited: &ProcessExited{Pid: 2, ExitCode: 0}},
		{SessionID: "b", ProcessSignaled: &ProcessSignaled{Pid: 1, Registered: true}},
		{SessionID: "b", ProcessSignaled: &ProcessSignaled{Pid: 3}},
		{SessionID: "b", InvalidCommand: &InvalidCommand{Name: "dalek", Error: "bad pid"}},
		{SessionID: "b", InvalidCommand: &InvalidCommand{Name: "dalek", Error: "bad pid"}},
		{HistoryFailure: &HistoryFailure{Op: "save"}},
		{SessionID: "b"},
	} {
		r.Update(le)
	}

	assert.Equal(t, 11, r.LogEntries)
	assert.Equal(t, 5, r.Sessions.Get("a"))
	assert.Equal(t, 5, r.Sessions.Get("b"))
	assert.Equal(t, 2, r.RunCommand.CommandNames.Get("background"))
	assert.Equal(t, 1, r.RunCommand.Replays)
	assert.Equal(t, 2, r.Process.Started)
	assert.Equal(t, 1, r.Process.Background)
	assert.Equal(t, 1, r.Process.ExitCodes.Get("0"))
	assert.Equal(t, 2, r.Process.Signaled)
	assert.Equal(t, 1, r.Process.Unregistered)
	assert.Equal(t, 1, r.HistoryFailures.Ops.Get("save"))
	assert.Equal(t, 1, r.InvalidEntries.Get("<nil>"))

	out, err := json.Marshal(r.InvalidCommand.Commands)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"count":2,"event":{"command":"dalek","error":"bad pid"}}]`, string(out))
}

func TestStrCounter_MarshalJSON(t *testing.T) {
	var empty StrCounter
	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))

	var counter StrCounter
	counter.Increment("b")
	counter.Increment("a")
	counter.Increment("b")
	out, err = json.Marshal(counter)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(out))
}
