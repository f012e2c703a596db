package features

import (
	"regexp"
	"strconv"
	"strings"
)

// PatientFeatures holds the scalars and normalized symptom tokens extracted
// from the latest user turn. Never mutated after extraction.
type PatientFeatures struct {
	Age          *int
	Sex          string
	DurationDays *int
	FeverC       *float64
	Symptoms     []string
	Meds         []string
	QueryTerms   []string

	// Tokens is the normalized (lowercase, plural-folded, synonym-expanded)
	// symptom token set the guardrail matcher consumes.
	Tokens map[string]struct{}
}

var (
	ageYearsRe  = regexp.MustCompile(`(\d+)\s*(?:years?\s*old|year|yrs?|y\.o\.)`)
	ageLabelRe  = regexp.MustCompile(`age\s*(\d+)`)
	ageMonthsRe = regexp.MustCompile(`(\d+)\s*(?:months?\s*old|month|mo)\b`)
	sexMaleRe   = regexp.MustCompile(`\b(male|man|boy|son|father|husband|he|him|his)\b`)
	sexFemaleRe = regexp.MustCompile(`\b(female|woman|girl|daughter|mother|wife|she|her)\b`)
	celsiusRe   = regexp.MustCompile(`(\d+\.?\d*)\s*°?\s*c\b`)
	fahrenRe    = regexp.MustCompile(`(\d+\.?\d*)\s*°?\s*f\b`)
)

var durationUnits = []struct {
	re   *regexp.Regexp
	days int
}{
	{regexp.MustCompile(`(\d+)\s*day`), 1},
	{regexp.MustCompile(`(\d+)\s*week`), 7},
	{regexp.MustCompile(`(\d+)\s*month`), 30},
	{regexp.MustCompile(`(\d+)\s*hour`), 1}, // sub-day rounds up to one day
}

var symptomKeywords = []string{
	"fever", "cough", "sore throat", "headache", "nausea", "vomiting",
	"diarrhea", "chest pain", "shortness of breath", "difficulty breathing",
	"rash", "fatigue", "weakness", "dizziness", "confusion",
	"stiff neck", "abdominal pain", "ear pain", "runny nose",
	"congestion", "chills", "sweating", "muscle aches", "joint pain",
	"bleeding", "fainting", "seizure", "numbness", "slurred speech",
}

var medKeywords = []string{
	"tylenol", "acetaminophen", "paracetamol",
	"advil", "ibuprofen", "motrin",
	"aspirin",
	"antibiotics", "amoxicillin", "penicillin",
	"antihistamine", "benadryl",
	"cough syrup", "cough medicine",
}

// symptomSynonyms fold phrasing variants into the canonical token the rule
// table is written against.
var symptomSynonyms = map[string]string{
	"difficulty breathing": "shortness of breath",
	"trouble breathing":    "shortness of breath",
	"cant breathe":         "shortness of breath",
	"can't breathe":        "shortness of breath",
	"throwing up":          "vomiting",
	"passed out":           "fainting",
	"passing out":          "fainting",
	"tight chest":          "chest pain",
	"chest tightness":      "chest pain",
	"high temperature":     "fever",
	"temperature":          "fever",
}

// Extractor derives PatientFeatures from raw user text. Deterministic and
// stateless; the regex tables are compiled once at package load.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the latest user turn into features and the normalized
// token set used for guardrail matching and retrieval query terms.
func (e *Extractor) Extract(userText string) *PatientFeatures {
	text := strings.ToLower(strings.Join(strings.Fields(userText), " "))

	f := &PatientFeatures{
		Tokens: make(map[string]struct{}),
	}

	f.Age = extractAge(text)
	f.Sex = extractSex(text)
	f.DurationDays = extractDuration(text)
	f.FeverC = extractFever(text)

	// Symptom keywords, with synonym variants folded into canonical tokens.
	for variant, canonical := range symptomSynonyms {
		if strings.Contains(text, variant) {
			f.Tokens[canonical] = struct{}{}
		}
	}
	for _, kw := range symptomKeywords {
		if containsToken(text, kw) {
			f.Symptoms = append(f.Symptoms, kw)
			f.Tokens[kw] = struct{}{}
		}
	}

	for _, med := range medKeywords {
		if strings.Contains(text, med) {
			f.Meds = append(f.Meds, med)
		}
	}

	// Derived tokens: an infant with a fever must trip the infant-fever
	// guardrail even when neither word appears verbatim.
	if f.Age != nil && *f.Age == 0 {
		f.Tokens["infant"] = struct{}{}
	}
	if f.FeverC != nil && *f.FeverC >= 38.0 {
		f.Tokens["fever"] = struct{}{}
	}

	f.QueryTerms = buildQueryTerms(f)
	return f
}

func extractAge(text string) *int {
	if m := ageMonthsRe.FindStringSubmatch(text); m != nil {
		zero := 0
		return &zero
	}
	for _, re := range []*regexp.Regexp{ageYearsRe, ageLabelRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			age, err := strconv.Atoi(m[1])
			if err == nil {
				return &age
			}
		}
	}
	return nil
}

func extractSex(text string) string {
	if sexMaleRe.MatchString(text) {
		return "M"
	}
	if sexFemaleRe.MatchString(text) {
		return "F"
	}
	return ""
}

func extractDuration(text string) *int {
	for _, unit := range durationUnits {
		if m := unit.re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			days := n * unit.days
			if unit.days == 1 && strings.Contains(m[0], "hour") {
				days = 1
			}
			return &days
		}
	}
	return nil
}

func extractFever(text string) *float64 {
	if m := celsiusRe.FindStringSubmatch(text); m != nil {
		if c, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &c
		}
	}
	if m := fahrenRe.FindStringSubmatch(text); m != nil {
		if fdeg, err := strconv.ParseFloat(m[1], 64); err == nil {
			c := (fdeg - 32) * 5 / 9
			return &c
		}
	}
	return nil
}

func buildQueryTerms(f *PatientFeatures) []string {
	terms := make([]string, 0, len(f.Symptoms)+len(f.Meds)+2)
	terms = append(terms, f.Symptoms...)

	if f.Age != nil {
		switch {
		case *f.Age == 0:
			terms = append(terms, "infant")
		case *f.Age < 12:
			terms = append(terms, "child")
		default:
			terms = append(terms, "adult")
		}
	}
	if f.DurationDays != nil {
		if *f.DurationDays <= 2 {
			terms = append(terms, "acute")
		} else {
			terms = append(terms, "persistent")
		}
	}
	terms = append(terms, f.Meds...)
	return terms
}

// containsToken reports whether kw appears in text on a word boundary,
// accepting a trailing plural "s" so "headaches" matches the "headache"
// keyword and rule token.
func containsToken(text, kw string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end >= len(text) || !isWordChar(text[end]) || (text[end] == 's' && (end+1 >= len(text) || !isWordChar(text[end+1])))
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
