package ptb

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrBuilderConsumed indicates the builder was used after Finish or Build.
	ErrBuilderConsumed = errors.New("ptb: builder already consumed")

	// ErrNoCommands indicates the builder was finished without any commands.
	ErrNoCommands = errors.New("ptb: transaction has no commands")

	// ErrUnresolvedOffline indicates intents were still pending at finish
	// time and no state reader was configured to resolve them.
	ErrUnresolvedOffline = errors.New("ptb: unable to resolve intents offline")
)

// InputError indicates malformed or out-of-policy caller input: a missing
// required field, an empty operand list, or an exceeded limit. The builder
// remains usable; fix the input and retry the call.
type InputError struct {
	Field string // offending field or operand, when known
	Err   error
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("ptb: invalid input %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("ptb: invalid input: %v", e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputErrorf(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Err: fmt.Errorf(format, args...)}
}

// UnknownArgumentError indicates an Argument whose identifier was never
// allocated by this builder. This is a programming error in the call
// sequence, not recoverable by retrying the same calls.
type UnknownArgumentError struct {
	ID int
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("ptb: unknown argument %d", e.ID)
}

// CyclicReferenceError indicates an alias chain that revisits an argument
// identifier during resolution.
type CyclicReferenceError struct {
	ID int
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("ptb: cyclic reference through argument %d", e.ID)
}

// InvalidModuleError indicates a Move call with a malformed module name.
type InvalidModuleError struct {
	Name string
}

func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("ptb: invalid module identifier %q", e.Name)
}

// InvalidFunctionError indicates a Move call with a malformed function name.
type InvalidFunctionError struct {
	Name string
}

func (e *InvalidFunctionError) Error() string {
	return fmt.Sprintf("ptb: invalid function identifier %q", e.Name)
}

// EncodingError indicates the assembled transaction was structurally valid
// but rejected by the BCS codec. Distinct from InputError so callers can
// tell a bad graph from an encoder rejection.
type EncodingError struct {
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("ptb: encoding error for value %T: %v", e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ResolutionFailure classifies why an intent could not be resolved.
type ResolutionFailure int

const (
	// ResolutionNotFound means the requested state does not exist on chain.
	ResolutionNotFound ResolutionFailure = iota

	// ResolutionAmbiguous means more than one candidate satisfied the
	// request and the intent could not choose between them.
	ResolutionAmbiguous

	// ResolutionUnavailable means the state-query channel failed
	// transiently; retrying Finish may succeed.
	ResolutionUnavailable
)

func (f ResolutionFailure) String() string {
	switch f {
	case ResolutionNotFound:
		return "not found"
	case ResolutionAmbiguous:
		return "ambiguous"
	case ResolutionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ResolutionError indicates an intent failed to resolve during Finish.
type ResolutionError struct {
	Intent string // intent name, e.g. "CoinWithBalance"
	Kind   ResolutionFailure
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ptb: intent %s: %s: %v", e.Intent, e.Kind, e.Err)
	}
	return fmt.Sprintf("ptb: intent %s: %s", e.Intent, e.Kind)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying Finish may succeed without changing
// the builder's contents.
func (e *ResolutionError) Retryable() bool {
	return e.Kind == ResolutionUnavailable
}
