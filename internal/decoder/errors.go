package decoder

import (
	"fmt"

	"github.com/yulesa/glaciers/internal/matcher"
)

// ErrorKind enumerates DecoderError subvariants (spec.md §7).
type ErrorKind int

const (
	KindDecodingError ErrorKind = iota
	KindEngineError
	KindIoError
	KindTaskError
	KindMatcherError
)

type DecoderError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DecoderError) Error() string {
	switch e.Kind {
	case KindDecodingError:
		return "decoder: decoding error: " + e.Message
	case KindIoError:
		return fmt.Sprintf("decoder: io error: %v", e.Err)
	case KindTaskError:
		return fmt.Sprintf("decoder: task error: %v", e.Err)
	case KindMatcherError:
		return fmt.Sprintf("decoder: matcher error: %v", e.Err)
	default:
		return fmt.Sprintf("decoder: engine error: %v", e.Err)
	}
}

func (e *DecoderError) Unwrap() error { return e.Err }

func fromMatcherErr(err error) error {
	if err == nil {
		return nil
	}
	var me *matcher.MatcherError
	if asMatcherError(err, &me) {
		return &DecoderError{Kind: KindMatcherError, Err: err}
	}
	return &DecoderError{Kind: KindEngineError, Err: err}
}

func asMatcherError(err error, target **matcher.MatcherError) bool {
	me, ok := err.(*matcher.MatcherError)
	if !ok {
		return false
	}
	*target = me
	return true
}
