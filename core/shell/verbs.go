package shell

// Verb identifies one of the built-in operations of the shell.
type Verb int

const (
	// VerbNone is the verb of any command whose name isn't a keyword.
	VerbNone Verb = iota
	VerbMoveToDir
	VerbWhereAmI
	VerbHistory
	VerbByeBye
	VerbReplay
	VerbStart
	VerbBackground
	VerbDalek
	VerbRepeat
	VerbDalekAll
)

const unbounded = -1

type verbInfo struct {
	keyword string
	usage   string
	minArgs int
	maxArgs int
}

var verbTable = [...]verbInfo{
	VerbNone:       {},
	VerbMoveToDir:  {"movetodir", "DIRECTORY", 1, 1},
	VerbWhereAmI:   {"whereami", "", 0, 0},
	VerbHistory:    {"history", "[-c]", 0, 1},
	VerbByeBye:     {"byebye", "", 0, 0},
	VerbReplay:     {"replay", "NUMBER", 1, 1},
	VerbStart:      {"start", "PROGRAM [PARAMETERS...]", 1, unbounded},
	VerbBackground: {"background", "PROGRAM [PARAMETERS...]", 1, unbounded},
	VerbDalek:      {"dalek", "PID", 1, 1},
	VerbRepeat:     {"repeat", "N background PROGRAM [PARAMETERS...]", 2, unbounded},
	VerbDalekAll:   {"dalekall", "", 0, 0},
}

// Verbs returns every recognized verb in keyword order.
func Verbs() []Verb {
	out := make([]Verb, 0, len(verbTable)-1)
	for v := VerbMoveToDir; v <= VerbDalekAll; v++ {
		out = append(out, v)
	}
	return out
}

// LookupVerb finds the verb for a keyword. Matching is exact and case
// sensitive; unknown names return VerbNone.
func LookupVerb(name string) Verb {
	for _, v := range Verbs() {
		if verbTable[v].keyword == name {
			return v
		}
	}
	return VerbNone
}

func (v Verb) valid() bool {
	return v > VerbNone && v <= VerbDalekAll
}

// String returns the keyword for the verb.
func (v Verb) String() string {
	if !v.valid() {
		return "none"
	}
	return verbTable[v].keyword
}

// Usage returns a one line description of the verb's parameters.
func (v Verb) Usage() string {
	if !v.valid() {
		return ""
	}
	return verbTable[v].usage
}

// Accepts reports whether the verb can be called with n parameters.
func (v Verb) Accepts(n int) bool {
	if !v.valid() {
		return false
	}
	info := verbTable[v]
	if n < info.minArgs {
		return false
	}
	return info.maxArgs == unbounded || n <= info.maxArgs
}
