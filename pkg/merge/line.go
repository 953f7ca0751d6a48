package merge

import (
	"strings"

	"github.com/agentstation/propmerge/pkg/constants"
)

// ParseKey classifies a line. A line is keyed when it is non-empty, does not
// start with '#', and contains '='. The key is the text before the first '='
// with surrounding whitespace trimmed. The value side is never inspected.
func ParseKey(line string) (key string, ok bool) {
	if line == "" || line[0] == constants.CommentPrefix {
		return "", false
	}
	idx := strings.Index(line, constants.KeySeparator)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[:idx]), true
}

// entry is one output slot: either a verbatim line or a reference to the
// current value of a key.
type entry struct {
	text  string
	key   string
	keyed bool
}

// state is the per-job merge state. Each key owns exactly one entry, fixed at
// its first occurrence; later occurrences only replace values[key].
type state struct {
	entries  []entry
	values   map[string]string
	excluded map[string]struct{}
}

func newState(excludes []string) *state {
	excluded := make(map[string]struct{}, len(excludes))
	for _, key := range excludes {
		excluded[key] = struct{}{}
	}
	return &state{
		values:   make(map[string]string),
		excluded: excluded,
	}
}

// lineOutcome reports what add did with a line.
type lineOutcome int

const (
	lineVerbatim lineOutcome = iota
	lineAdded
	lineMerged
	lineDiscarded
)

// add applies one source line to the state.
func (s *state) add(line string) lineOutcome {
	key, ok := ParseKey(line)
	if !ok {
		s.entries = append(s.entries, entry{text: line})
		return lineVerbatim
	}
	if _, skip := s.excluded[key]; skip {
		return lineDiscarded
	}
	if _, seen := s.values[key]; seen {
		s.values[key] = line
		return lineMerged
	}
	s.values[key] = line
	s.entries = append(s.entries, entry{key: key, keyed: true})
	return lineAdded
}

// lines resolves every entry to the text that will be written.
func (s *state) lines() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		if e.keyed {
			out[i] = s.values[e.key]
		} else {
			out[i] = e.text
		}
	}
	return out
}
