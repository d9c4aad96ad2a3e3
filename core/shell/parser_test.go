package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleParse() {
	cmd := Parse("  background   sleep 100 ")

	fmt.Printf("Raw: %q\n", cmd.Raw)
	fmt.Printf("Name: %q\n", cmd.Name())
	fmt.Printf("Params: %q\n", cmd.Params())
	fmt.Println("Verb:", cmd.Verb)
	fmt.Println("Valid:", cmd.Valid())

	// Output: Raw: "  background   sleep 100 "
	// Name: "background"
	// Params: ["sleep" "100"]
	// Verb: background
	// Valid: true
}

func ExampleFromTokens() {
	cmd := FromTokens([]string{"background", "echo", "hi"})

	fmt.Printf("Raw: %q\n", cmd.Raw)
	fmt.Println("Verb:", cmd.Verb)

	// Output: Raw: "background echo hi"
	// Verb: background
}

func TestParse_blank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t \t"} {
		cmd := Parse(line)
		assert.Empty(t, cmd.Tokens)
		assert.Equal(t, "", cmd.Name())
		assert.Nil(t, cmd.Params())
		assert.Equal(t, VerbNone, cmd.Verb)
		assert.False(t, cmd.Valid())
	}
}

func TestParse_caseSensitive(t *testing.T) {
	assert.Equal(t, VerbWhereAmI, Parse("whereami").Verb)
	assert.Equal(t, VerbNone, Parse("WhereAmI").Verb)
	assert.Equal(t, VerbNone, Parse("where").Verb)
	assert.False(t, Parse("ls -la").Valid())
}

func TestCommand_Valid(t *testing.T) {
	cases := map[string]struct {
		valid   []string
		invalid []string
	}{
		"movetodir": {
			valid:   []string{"movetodir /tmp"},
			invalid: []string{"movetodir", "movetodir a b"},
		},
		"whereami": {
			valid:   []string{"whereami"},
			invalid: []string{"whereami now"},
		},
		"history": {
			valid:   []string{"history", "history -c", "history anything"},
			invalid: []string{"history -c -c"},
		},
		"byebye": {
			valid:   []string{"byebye"},
			invalid: []string{"byebye now"},
		},
		"replay": {
			valid:   []string{"replay 0"},
			invalid: []string{"replay", "replay 1 2"},
		},
		"start": {
			valid:   []string{"start ls", "start /bin/ls -la /"},
			invalid: []string{"start"},
		},
		"background": {
			valid:   []string{"background sleep", "background sleep 100"},
			invalid: []string{"background"},
		},
		"dalek": {
			valid:   []string{"dalek 123"},
			invalid: []string{"dalek", "dalek 1 2"},
		},
		"repeat": {
			valid:   []string{"repeat 3 background", "repeat 3 background echo hi"},
			invalid: []string{"repeat", "repeat 3"},
		},
		"dalekall": {
			valid:   []string{"dalekall"},
			invalid: []string{"dalekall 1"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			for _, line := range tc.valid {
				assert.True(t, Parse(line).Valid(), "expected valid: %q", line)
			}
			for _, line := range tc.invalid {
				assert.False(t, Parse(line).Valid(), "expected invalid: %q", line)
			}
		})
	}
}

func TestCommand_ParamsCopy(t *testing.T) {
	cmd := Parse("start a b")
	params := cmd.Params()
	params[0] = "changed"

	assert.Equal(t, []string{"start", "a", "b"}, cmd.Tokens)
}

func TestCommand_ReplayIndex(t *testing.T) {
	cmd := Parse("whereami")
	_, ok := cmd.ReplayIndex()
	assert.False(t, ok)

	cmd.SetReplayIndex(4)
	idx, ok := cmd.ReplayIndex()
	assert.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestParser_quoting(t *testing.T) {
	p := Parser{Quoting: true}

	cmd, err := p.Parse(`start "/opt/my app/run" --flag 'a b'`)
	assert.Nil(t, err)
	assert.Equal(t, []string{"start", "/opt/my app/run", "--flag", "a b"}, cmd.Tokens)
	assert.Equal(t, VerbStart, cmd.Verb)

	plain := Parse(`start "/opt/my app/run"`)
	assert.Equal(t, []string{"start", `"/opt/my`, `app/run"`}, plain.Tokens)
}

func TestVerbs(t *testing.T) {
	verbs := Verbs()
	assert.Len(t, verbs, 10)

	for _, v := range verbs {
		assert.Equal(t, v, LookupVerb(v.String()))
	}

	assert.Equal(t, "none", VerbNone.String())
	assert.False(t, VerbNone.Accepts(0))
}
