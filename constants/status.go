package constants

// Outcome is the canonical terminal state for one processing attempt.
type Outcome string

// Stable values (store these exact strings in the journal).
const (
	OutcomeProcessed Outcome = "PROCESSED" // result written to the output namespace
	OutcomeError     Outcome = "ERROR"     // original bytes relocated to the error namespace
	OutcomeSkipped   Outcome = "SKIPPED"   // not a document JSON; marker discarded
)
