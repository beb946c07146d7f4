package models

// OutcomeKind discriminates adapter results.
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeNotice      OutcomeKind = "notice" // informational, not an error
	OutcomeSoftFailure OutcomeKind = "soft_failure"
	OutcomeHardFailure OutcomeKind = "hard_failure"
)

// FailureReason narrows a failure down for callers that branch on it.
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonNotConfigured FailureReason = "not_configured"
	ReasonUnreachable   FailureReason = "unreachable"
	ReasonNotFound      FailureReason = "not_found"
	ReasonProvider      FailureReason = "provider"
	ReasonUnavailable   FailureReason = "unavailable"
)

// Outcome is the tagged result every source adapter returns instead of an error.
// Message is always safe to show to an end user.
type Outcome[T any] struct {
	Kind    OutcomeKind
	Reason  FailureReason
	Message string
	Value   T
}

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeSuccess, Value: v}
}

func Notice[T any](msg string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeNotice, Message: msg}
}

func SoftFailure[T any](reason FailureReason, msg string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeSoftFailure, Reason: reason, Message: msg}
}

func HardFailure[T any](reason FailureReason, msg string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeHardFailure, Reason: reason, Message: msg}
}

func (o Outcome[T]) OK() bool { return o.Kind == OutcomeSuccess }

func (o Outcome[T]) Failed() bool {
	return o.Kind == OutcomeSoftFailure || o.Kind == OutcomeHardFailure
}
