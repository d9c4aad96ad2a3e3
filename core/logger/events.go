package logger

// LogType is implemented by every event that can be recorded.
type LogType interface {
	isLogType()
}

// LogEntry is a single record in the event log. Exactly one event field is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunCommand      *RunCommand      `json:"run_command,omitempty"`
	InvalidCommand  *InvalidCommand  `json:"invalid_command,omitempty"`
	ProcessStarted  *ProcessStarted  `json:"process_started,omitempty"`
	ProcessExited   *ProcessExited   `json:"process_exited,omitempty"`
	ProcessSignaled *ProcessSignaled `json:"process_signaled,omitempty"`
	HistoryFailure  *HistoryFailure  `json:"history_failure,omitempty"`
}

// GetLogType returns the event held by the entry or nil.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.RunCommand != nil:
		return le.RunCommand
	case le.InvalidCommand != nil:
		return le.InvalidCommand
	case le.ProcessStarted != nil:
		return le.ProcessStarted
	case le.ProcessExited != nil:
		return le.ProcessExited
	case le.ProcessSignaled != nil:
		return le.ProcessSignaled
	case le.HistoryFailure != nil:
		return le.HistoryFailure
	default:
		return nil
	}
}

func (le *LogEntry) setLogType(event LogType) {
	switch event := event.(type) {
	case *RunCommand:
		le.RunCommand = event
	case *InvalidCommand:
		le.InvalidCommand = event
	case *ProcessStarted:
		le.ProcessStarted = event
	case *ProcessExited:
		le.ProcessExited = event
	case *ProcessSignaled:
		le.ProcessSignaled = event
	case *HistoryFailure:
		le.HistoryFailure = event
	}
}

// RunCommand is logged when a valid command is dispatched.
type RunCommand struct {
	Command []string `json:"command"`
	// ReplayOf holds the history index when the command came from replay.
	ReplayOf *int `json:"replay_of,omitempty"`
}

// InvalidCommand is logged when a line is rejected before running.
type InvalidCommand struct {
	Raw   string `json:"raw"`
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// ProcessStarted is logged when a child process is created.
type ProcessStarted struct {
	Pid        int      `json:"pid"`
	Path       string   `json:"path"`
	Argv       []string `json:"argv"`
	Background bool     `json:"background"`
}

// ProcessExited is logged when a child process is collected.
type ProcessExited struct {
	Pid        int  `json:"pid"`
	ExitCode   int  `json:"exit_code"`
	Background bool `json:"background"`
}

// ProcessSignaled is logged when the shell asks a process to terminate.
type ProcessSignaled struct {
	Pid int `json:"pid"`
	// Registered is set if the process was launched by this session.
	Registered bool   `json:"registered"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HistoryFailure is logged when the history file can't be read or written.
type HistoryFailure struct {
	Op    string `json:"op"`
	Error string `json:"error"`
}

func (*RunCommand) isLogType()      {}
func (*InvalidCommand) isLogType()  {}
func (*ProcessStarted) isLogType()  {}
func (*ProcessExited) isLogType()   {}
func (*ProcessSignaled) isLogType() {}
func (*HistoryFailure) isLogType()  {}
