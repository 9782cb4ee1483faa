package intent

import "strings"

// Label 表示聊天助手可以识别的意图。
type Label string

const (
	Skills     Label = "skills"
	Internship Label = "internship"
	Career     Label = "career"
	Placement  Label = "placement"
	Projects   Label = "projects"
	Coding     Label = "coding"
	Default    Label = "default"
)

// Decision 给出意图识别结果以及命中的关键词。
type Decision struct {
	Intent  Label
	Keyword string
}

type rule struct {
	label    Label
	keywords []string
}

// rules are evaluated top to bottom and the first hit wins, so order matters.
var rules = []rule{
	{label: Skills, keywords: []string{"skill", "learn", "develop"}},
	{label: Internship, keywords: []string{"intern", "experience"}},
	{label: Career, keywords: []string{"career", "path"}},
	{label: Placement, keywords: []string{"placement"}},
	{label: Projects, keywords: []string{"project", "build"}},
	{label: Coding, keywords: []string{"cod", "program"}},
}

// Labels returns the closed intent set in priority order, Default last.
func Labels() []Label {
	out := make([]Label, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.label)
	}
	return append(out, Default)
}

// Classify maps an utterance to exactly one intent. It never fails; text that
// matches no rule resolves to Default.
func Classify(utterance string) Label {
	return Explain(utterance).Intent
}

// Explain is Classify plus the keyword that triggered the match.
func Explain(utterance string) Decision {
	normalized := strings.ToLower(utterance)
	for _, r := range rules {
		if kw, ok := firstContained(normalized, r.keywords); ok {
			return Decision{Intent: r.label, Keyword: kw}
		}
	}
	return Decision{Intent: Default}
}

// Valid reports whether l belongs to the closed intent set.
func (l Label) Valid() bool {
	_, ok := Parse(string(l))
	return ok
}

// Parse normalizes raw into a Label.
func Parse(raw string) (Label, bool) {
	normalized := Label(strings.ToLower(strings.TrimSpace(raw)))
	for _, l := range Labels() {
		if l == normalized {
			return l, true
		}
	}
	return "", false
}

func (l Label) String() string {
	return string(l)
}

func firstContained(s string, needles []string) (string, bool) {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return n, true
		}
	}
	return "", false
}
