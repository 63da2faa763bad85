package model

import "fmt"

// OutcomeKind tells the caller how an operation that may need the user's
// consent ended.
type OutcomeKind string

const (
	OutcomeCompleted         OutcomeKind = "completed"
	OutcomeNeedsConfirmation OutcomeKind = "needs_confirmation"
	OutcomeRejected          OutcomeKind = "rejected"
)

// Outcome is returned instead of prompting the user directly.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}

// SkipConfirmation builds the prompt shown before invalid rows are dropped.
func SkipConfirmation(invalid int) Outcome {
	return Outcome{
		Kind:    OutcomeNeedsConfirmation,
		Message: fmt.Sprintf("%d registro(s) com erro serão ignorados. Deseja continuar?", invalid),
	}
}

// SubmitResult reports a submit attempt.
type SubmitResult struct {
	Outcome  Outcome `json:"outcome"`
	Imported int     `json:"imported"`
	Skipped  int     `json:"skipped"`
}
