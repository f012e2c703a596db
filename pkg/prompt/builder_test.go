package prompt

import (
	"strings"
	"testing"

	"ai-symptomcheck-be/pkg/evidence"
	"ai-symptomcheck-be/pkg/features"
	"ai-symptomcheck-be/pkg/triage"
)

func TestBuilderRendersContextAndPatient(t *testing.T) {
	age := 34
	fever := 38.5
	bundle := &evidence.ContextBundle{
		Chunks: []evidence.ContextChunk{
			{CitationID: 1, Text: "chunk one"},
			{CitationID: 2, Text: "chunk two"},
		},
		Citations: []evidence.Citation{
			{ID: 1, DocID: "a", Source: "ontario-health"},
			{ID: 2, DocID: "b", Source: "caring-for-kids"},
		},
	}
	feats := &features.PatientFeatures{
		Age:    &age,
		Sex:    "F",
		FeverC: &fever,
		Meds:   []string{"tylenol"},
	}

	out := NewBuilder(bundle, feats, "should I see a doctor?").Build()

	for _, want := range []string{
		"[1] (ontario-health) chunk one",
		"[2] (caring-for-kids) chunk two",
		"age=34",
		"sex=F",
		"fever_c=38.5",
		"meds=tylenol",
		"region=CA-ON",
		"QUESTION:\nshould I see a doctor?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q:\n%s", want, out)
		}
	}
}

func TestBuilderEmptyBundle(t *testing.T) {
	out := NewBuilder(&evidence.ContextBundle{}, nil, "question").Build()

	if !strings.Contains(out, "No relevant information found") {
		t.Errorf("empty-bundle prompt missing no-evidence notice:\n%s", out)
	}
	if !strings.Contains(out, "age=unknown") {
		t.Errorf("nil features should render unknowns:\n%s", out)
	}
}

func TestSystemPromptCarriesOntarioResources(t *testing.T) {
	for _, want := range []string{TelehealthOntario, EmergencyNumber, "walk-in clinic"} {
		if !strings.Contains(SystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildEmergencyAnswer911(t *testing.T) {
	decision := triage.Decision{
		Level:   triage.Level911,
		Message: "Possible heart attack.",
	}
	citations := []evidence.Citation{
		{ID: 1, Title: "Chest Pain: When to Seek Help", Source: "ontario-health"},
	}

	out := BuildEmergencyAnswer(decision, []string{"Possible heart attack.", "Breathing difficulty."}, citations)

	for _, want := range []string{
		"URGENT: Possible heart attack.",
		"Call 911 immediately",
		"1. Possible heart attack.",
		"2. Breathing difficulty.",
		"[1] Chest Pain: When to Seek Help - ontario-health",
		"This is not medical advice.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("emergency answer missing %q:\n%s", want, out)
		}
	}
}

func TestBuildEmergencyAnswerERWithoutCitations(t *testing.T) {
	decision := triage.Decision{
		Level:   triage.LevelER,
		Message: "Infant fever needs immediate assessment.",
	}

	out := BuildEmergencyAnswer(decision, nil, nil)

	if !strings.Contains(out, "Go to the Emergency Room immediately") {
		t.Errorf("ER answer missing ER action:\n%s", out)
	}
	if strings.Contains(out, "Sources:") {
		t.Errorf("ER answer rendered empty sources block:\n%s", out)
	}
}
