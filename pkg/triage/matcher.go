package triage

// Decision is the outcome of a guardrail check. Exactly one level per
// request; MatchedRule is nil when no rule fired.
type Decision struct {
	Level       string
	MatchedRule *Rule
	Message     string
}

// Matcher evaluates symptom token sets against the loaded rule table.
// It is pure and safe for concurrent use: the rule slice is never mutated
// after construction.
type Matcher struct {
	rules []Rule
}

// NewMatcher wraps an already-validated, priority-sorted rule table
// (see LoadRules).
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Match walks rules in ascending priority order and returns the first rule
// whose required tokens are all present. Absence of a match is a valid
// outcome (primary-care), not an error.
func (m *Matcher) Match(tokens map[string]struct{}) Decision {
	for i := range m.rules {
		rule := &m.rules[i]
		if containsAll(tokens, rule.RequiredTokens) {
			level := LevelER
			if rule.Action == Action911 {
				level = Level911
			}
			return Decision{
				Level:       level,
				MatchedRule: rule,
				Message:     rule.Message,
			}
		}
	}
	return Decision{Level: LevelPrimaryCare}
}

// MatchAll returns the messages of every rule that fires, in priority
// order. Used to surface the full red-flag list alongside the primary
// decision.
func (m *Matcher) MatchAll(tokens map[string]struct{}) []string {
	var flags []string
	for i := range m.rules {
		if containsAll(tokens, m.rules[i].RequiredTokens) {
			flags = append(flags, m.rules[i].Message)
		}
	}
	return flags
}

func containsAll(tokens map[string]struct{}, required []string) bool {
	for _, tok := range required {
		if _, ok := tokens[tok]; !ok {
			return false
		}
	}
	return true
}
