package ai

import (
	"context"
	"fmt"
)

// FailureKind classifies why a provider produced no answer.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNoProvider
	FailureTransport // network, timeout or non-2xx status
	FailureMalformed // 2xx with an unexpected body
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNoProvider:
		return "no_provider"
	case FailureTransport:
		return "transport"
	case FailureMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

type Request struct {
	System      string
	Question    string
	MaxTokens   int
	Temperature float64
}

// Result is either Text with FailureNone, or a failure kind with its cause.
type Result struct {
	Text    string
	Failure FailureKind
	Err     error
}

func (r Result) OK() bool { return r.Failure == FailureNone }

func success(text string) Result { return Result{Text: text} }

func failure(kind FailureKind, err error) Result { return Result{Failure: kind, Err: err} }

// Provider is one external completion API.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) Result
}
