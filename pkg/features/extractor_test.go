package features

import (
	"math"
	"testing"
)

func TestExtractScalars(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name         string
		text         string
		wantAge      *int
		wantSex      string
		wantDuration *int
		wantFeverC   *float64
	}{
		{
			name:    "age in years",
			text:    "I am 34 years old",
			wantAge: intp(34),
		},
		{
			name:    "age label",
			text:    "patient, age 70, with a cough",
			wantAge: intp(70),
		},
		{
			name:    "months old maps to age zero",
			text:    "my 2 month old has a temperature of 38.5C",
			wantAge: intp(0), wantFeverC: floatp(38.5),
		},
		{
			name:    "sex male",
			text:    "my husband has a rash",
			wantSex: "M",
		},
		{
			name:    "sex female",
			text:    "she has been dizzy",
			wantSex: "F",
		},
		{
			name:         "duration in days",
			text:         "coughing for 3 days",
			wantDuration: intp(3),
		},
		{
			name:         "duration in weeks",
			text:         "sore throat for 2 weeks",
			wantDuration: intp(14),
		},
		{
			name:         "hours round up to one day",
			text:         "headache for 6 hours",
			wantDuration: intp(1),
		},
		{
			name:       "fahrenheit converts to celsius",
			text:       "fever of 102f",
			wantFeverC: floatp((102 - 32.0) * 5 / 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.text)

			if !eqIntp(f.Age, tt.wantAge) {
				t.Errorf("Age = %v, want %v", fmtIntp(f.Age), fmtIntp(tt.wantAge))
			}
			if f.Sex != tt.wantSex {
				t.Errorf("Sex = %q, want %q", f.Sex, tt.wantSex)
			}
			if !eqIntp(f.DurationDays, tt.wantDuration) {
				t.Errorf("DurationDays = %v, want %v", fmtIntp(f.DurationDays), fmtIntp(tt.wantDuration))
			}
			if !eqFloatp(f.FeverC, tt.wantFeverC) {
				t.Errorf("FeverC = %v, want %v", f.FeverC, tt.wantFeverC)
			}
		})
	}
}

func TestExtractSymptomTokens(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name       string
		text       string
		wantTokens []string
	}{
		{
			name:       "direct keywords",
			text:       "I have chest pain and a cough",
			wantTokens: []string{"chest pain", "cough"},
		},
		{
			name:       "plural keyword matches",
			text:       "terrible headaches since yesterday",
			wantTokens: []string{"headache"},
		},
		{
			name:       "synonym folds to canonical token",
			text:       "I have trouble breathing and my chest feels tight",
			wantTokens: []string{"shortness of breath"},
		},
		{
			name:       "throwing up maps to vomiting",
			text:       "been throwing up all night",
			wantTokens: []string{"vomiting"},
		},
		{
			name:       "no embedded-word false positives",
			text:       "discovering the coverage",
			wantTokens: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.text)
			for _, tok := range tt.wantTokens {
				if _, ok := f.Tokens[tok]; !ok {
					t.Errorf("Tokens missing %q, got %v", tok, f.Tokens)
				}
			}
			if tt.wantTokens == nil && len(f.Tokens) != 0 {
				t.Errorf("Tokens = %v, want empty", f.Tokens)
			}
		})
	}
}

func TestExtractDerivedTokens(t *testing.T) {
	e := NewExtractor()

	// Neither "infant" nor "fever" appears verbatim, but both derived
	// tokens must be present for the infant-fever guardrail.
	f := e.Extract("my 6 week old baby has a temperature of 38.4 C")

	if _, ok := f.Tokens["infant"]; !ok {
		t.Errorf("Tokens missing derived \"infant\": %v", f.Tokens)
	}
	if _, ok := f.Tokens["fever"]; !ok {
		t.Errorf("Tokens missing derived \"fever\": %v", f.Tokens)
	}

	// Below the fever threshold no fever token is derived.
	f = e.Extract("temperature of 37.2 C, otherwise fine, adult")
	if f.FeverC == nil || *f.FeverC != 37.2 {
		t.Fatalf("FeverC = %v, want 37.2", f.FeverC)
	}
}

func TestExtractMeds(t *testing.T) {
	e := NewExtractor()

	f := e.Extract("I took tylenol and some ibuprofen but the fever is back")
	if len(f.Meds) != 2 {
		t.Fatalf("Meds = %v, want 2 entries", f.Meds)
	}
}

func TestBuildQueryTerms(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		text     string
		wantTerm string
	}{
		{"infant bucket", "my 3 month old has a cough", "infant"},
		{"child bucket", "my 7 year old has a cough", "child"},
		{"adult bucket", "I'm 40 years old with a cough", "adult"},
		{"acute duration", "cough for 1 day", "acute"},
		{"persistent duration", "cough for 2 weeks", "persistent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.text)
			found := false
			for _, term := range f.QueryTerms {
				if term == tt.wantTerm {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("QueryTerms = %v, want to contain %q", f.QueryTerms, tt.wantTerm)
			}
		})
	}
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func eqIntp(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloatp(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return math.Abs(*a-*b) < 1e-9
}

func fmtIntp(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
