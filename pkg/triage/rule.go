package triage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Triage levels attached to every response.
const (
	LevelPrimaryCare = "primary-care"
	LevelER          = "ER"
	Level911         = "911"
)

// Rule actions. An action maps directly to the non-primary-care triage levels.
const (
	ActionER  = "ER"
	Action911 = "911"
)

// Rule is a guardrail pattern: if every required token is present in the
// normalized symptom token set, the rule fires. Lower priority wins when
// multiple rules match.
type Rule struct {
	Priority       int      `json:"priority"`
	RequiredTokens []string `json:"required_tokens"`
	Action         string   `json:"action"`
	Message        string   `json:"message"`
}

type ruleFile struct {
	Rules []Rule `json:"rules"`
}

// LoadRules reads and validates the guardrail rule table. The table is
// loaded once at startup and read-only afterwards; a malformed table is a
// startup failure, never a request-time one.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var f ruleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if err := ValidateRules(f.Rules); err != nil {
		return nil, err
	}

	rules := make([]Rule, len(f.Rules))
	copy(rules, f.Rules)

	// Normalize tokens once so request-time matching is a plain set lookup.
	for i := range rules {
		for j, tok := range rules[i].RequiredTokens {
			rules[i].RequiredTokens[j] = strings.ToLower(strings.TrimSpace(tok))
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	return rules, nil
}

// ValidateRules rejects tables that could produce undefined triage behavior.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("rule table is empty")
	}
	for i, r := range rules {
		if len(r.RequiredTokens) == 0 {
			return fmt.Errorf("rule %d: required_tokens is empty", i)
		}
		if r.Action != ActionER && r.Action != Action911 {
			return fmt.Errorf("rule %d: unknown action %q", i, r.Action)
		}
		if strings.TrimSpace(r.Message) == "" {
			return fmt.Errorf("rule %d: message is empty", i)
		}
	}
	return nil
}
