package prompt

import (
	"fmt"
	"strings"

	"ai-symptomcheck-be/pkg/evidence"
	"ai-symptomcheck-be/pkg/features"
	"ai-symptomcheck-be/pkg/triage"
)

// Ontario-specific resource lines baked into every answer path.
const (
	TelehealthOntario = "1-866-797-0000"
	EmergencyNumber   = "911"
)

// SystemPrompt instructs the model to stay inside the provided context and
// to close with the Ontario escalation ladder.
var SystemPrompt = fmt.Sprintf(`You are a Canadian medical assistant for Ontario residents.

Use ONLY the provided CONTEXT to answer. Do not use external knowledge.

Output structure:
1) Possible causes (3-5 conditions; NOT a diagnosis, just possibilities based on the information)
2) Red flags (if any serious symptoms are present that require immediate attention)
3) What to do next in Ontario:
   - For non-urgent concerns: See your family doctor or visit a walk-in clinic
   - For medical questions: Call Telehealth Ontario at %s (available 24/7)
   - For emergencies: Call %s or go to the Emergency Room
4) Numbered citations [1]..[N] matching the CONTEXT sources

IMPORTANT:
- Base your answer ONLY on the provided CONTEXT
- If CONTEXT doesn't contain enough information, say so
- Always mention Ontario-specific resources (family doctor, walk-in clinic, Telehealth Ontario)
- Always append: "This is not medical advice. Call %s for emergencies."
- Be concise, clear, and avoid speculation beyond the sources`, TelehealthOntario, EmergencyNumber, EmergencyNumber)

// Builder renders the user-turn prompt from the assembled evidence, the
// extracted patient features and the raw question.
type Builder struct {
	bundle   *evidence.ContextBundle
	features *features.PatientFeatures
	question string
}

func NewBuilder(bundle *evidence.ContextBundle, feats *features.PatientFeatures, question string) *Builder {
	return &Builder{
		bundle:   bundle,
		features: feats,
		question: question,
	}
}

func (b *Builder) Build() string {
	var p strings.Builder

	b.writeContext(&p)
	b.writePatient(&p)

	p.WriteString("QUESTION:\n")
	p.WriteString(b.question)
	p.WriteString("\n")

	return p.String()
}

func (b *Builder) writeContext(p *strings.Builder) {
	p.WriteString("CONTEXT:\n")
	if b.bundle == nil || b.bundle.Empty() {
		// Valid no-evidence outcome; the model is told so instead of being
		// handed an empty block.
		p.WriteString("No relevant information found. State that the context does not cover the question.\n\n")
		return
	}

	for i, chunk := range b.bundle.Chunks {
		cit := b.bundle.Citations[i]
		fmt.Fprintf(p, "[%d] (%s) %s\n\n", chunk.CitationID, cit.Source, chunk.Text)
	}
}

func (b *Builder) writePatient(p *strings.Builder) {
	age := "unknown"
	sex := "unknown"
	duration := "unknown"
	fever := "none"
	meds := "none"

	if b.features != nil {
		if b.features.Age != nil {
			age = fmt.Sprintf("%d", *b.features.Age)
		}
		if b.features.Sex != "" {
			sex = b.features.Sex
		}
		if b.features.DurationDays != nil {
			duration = fmt.Sprintf("%d", *b.features.DurationDays)
		}
		if b.features.FeverC != nil {
			fever = fmt.Sprintf("%.1f", *b.features.FeverC)
		}
		if len(b.features.Meds) > 0 {
			meds = strings.Join(b.features.Meds, ", ")
		}
	}

	fmt.Fprintf(p, "PATIENT:\nage=%s, sex=%s, duration_days=%s, fever_c=%s, meds=%s, region=CA-ON\n\n",
		age, sex, duration, fever, meds)
}

// BuildEmergencyAnswer renders the canned response for the emergency path.
// Generation is never invoked here; the template carries the matched rule's
// message, the full red-flag list and any best-effort citations.
func BuildEmergencyAnswer(decision triage.Decision, redFlags []string, citations []evidence.Citation) string {
	var p strings.Builder

	fmt.Fprintf(&p, "URGENT: %s\n\n", decision.Message)
	p.WriteString("Based on your symptoms, this requires immediate medical attention.\n\n")

	if len(redFlags) > 0 {
		p.WriteString("Red flags detected:\n")
		for i, flag := range redFlags {
			fmt.Fprintf(&p, "%d. %s\n", i+1, flag)
		}
		p.WriteString("\n")
	}

	p.WriteString("What to do RIGHT NOW:\n")
	if decision.Level == triage.Level911 {
		fmt.Fprintf(&p, "- Call %s immediately\n\n", EmergencyNumber)
	} else {
		fmt.Fprintf(&p, "- Go to the Emergency Room immediately or call %s\n\n", EmergencyNumber)
	}

	if len(citations) > 0 {
		p.WriteString("Sources:\n")
		for _, cit := range citations {
			fmt.Fprintf(&p, "[%d] %s - %s\n", cit.ID, cit.Title, cit.Source)
		}
		p.WriteString("\n")
	}

	fmt.Fprintf(&p, "This is not medical advice. Call %s for emergencies.\n", EmergencyNumber)
	return p.String()
}
