package orchestrator

import "fmt"

// State is the explicit request state. Transitions are validated against
// the table below, which makes illegal flows (e.g. generation on the
// emergency path) fail loudly instead of silently happening.
type State int

const (
	StateStart State = iota
	StateFeaturesExtracted
	StateGuardrailChecked
	StateEmergencyFinalized
	StateRetrieved
	StateFused
	StateAssembled
	StateGenerated
	StateFinalized
	StateError
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateFeaturesExtracted:
		return "FEATURES_EXTRACTED"
	case StateGuardrailChecked:
		return "GUARDRAIL_CHECKED"
	case StateEmergencyFinalized:
		return "EMERGENCY_FINALIZED"
	case StateRetrieved:
		return "RETRIEVED"
	case StateFused:
		return "FUSED"
	case StateAssembled:
		return "ASSEMBLED"
	case StateGenerated:
		return "GENERATED"
	case StateFinalized:
		return "FINALIZED"
	case StateError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Terminal reports whether the request is complete.
func (s State) Terminal() bool {
	return s == StateFinalized || s == StateError
}

var transitions = map[State][]State{
	StateStart:              {StateFeaturesExtracted},
	StateFeaturesExtracted:  {StateGuardrailChecked},
	StateGuardrailChecked:   {StateEmergencyFinalized, StateRetrieved},
	StateEmergencyFinalized: {StateFinalized},
	StateRetrieved:          {StateFused},
	StateFused:              {StateAssembled},
	StateAssembled:          {StateGenerated},
	StateGenerated:          {StateFinalized},
}

// advance moves the machine to next, panicking on transitions the table
// does not allow. StateError is reachable from anywhere and handled by the
// caller directly.
func advance(current, next State) State {
	if next == StateError {
		return next
	}
	for _, allowed := range transitions[current] {
		if allowed == next {
			return next
		}
	}
	panic(fmt.Sprintf("illegal state transition %s -> %s", current, next))
}
