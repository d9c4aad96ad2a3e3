package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand      RunCommandReport     `json:"run_command_report"`
	InvalidCommand  InvalidCommandReport `json:"invalid_command_report"`
	Process         ProcessReport        `json:"process_report"`
	HistoryFailures HistoryFailureReport `json:"history_failure_report"`
}

// Update adds a log entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch event := le.GetLogType().(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *InvalidCommand:
		r.InvalidCommand.update(event)
	case *ProcessStarted:
		r.Process.updateStarted(event)
	case *ProcessExited:
		r.Process.updateExited(event)
	case *ProcessSignaled:
		r.Process.updateSignaled(event)
	case *HistoryFailure:
		r.HistoryFailures.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Verbs of dispatched commands and their counts.
	CommandNames StrCounter `json:"command_names"`
	// Number of commands run through replay.
	Replays int `json:"replays"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.ReplayOf != nil {
		r.Replays++
	}
}

type InvalidCommandReport struct {
	Commands *PathCounter `json:"commands"`
}

func (r *InvalidCommandReport) update(ic *InvalidCommand) {
	if r.Commands == nil {
		r.Commands = NewPathCounter("command", "error")
	}
	r.Commands.Increment(ic.Name, ic.Error)
}

type ProcessReport struct {
	Started    int        `json:"started"`
	Background int        `json:"background"`
	Programs   StrCounter `json:"programs"`
	ExitCodes  StrCounter `json:"exit_codes"`
	Signaled   int        `json:"signaled"`
	// Signals sent to processes this shell didn't launch.
	Unregistered int `json:"unregistered"`
}

func (r *ProcessReport) updateStarted(ps *ProcessStarted) {
	r.Started++
	if ps.Background {
		r.Background++
	}
	if len(ps.Argv) > 0 {
		r.Programs.Increment(ps.Argv[0])
	}
}

func (r *ProcessReport) updateExited(pe *ProcessExited) {
	r.ExitCodes.Increment(strconv.Itoa(pe.ExitCode))
}

func (r *ProcessReport) updateSignaled(ps *ProcessSignaled) {
	r.Signaled++
	if !ps.Registered {
		r.Unregistered++
	}
}

type HistoryFailureReport struct {
	Ops StrCounter `json:"ops"`
}

func (r *HistoryFailureReport) update(hf *HistoryFailure) {
	r.Ops.Increment(hf.Op)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for a key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of strings seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
