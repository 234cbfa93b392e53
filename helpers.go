package debug

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
//
// Example:
//
//	var originErr *debug.OriginError
//	if debug.As(err, &originErr) {
//	    log.Println(originErr.OriginCall())
//	}
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the ErrorCode of the first Coder in err's chain.
// Returns the zero code if err is nil or carries no code.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var coder Coder
	if stderrors.As(err, &coder) {
		return coder.Code()
	}

	return ""
}

// OriginOf returns the origin of the first origin-carrying error in err's
// chain, including types that embed OriginError.
func OriginOf(err error) (Origin, bool) {
	if err == nil {
		return Origin{}, false
	}

	var carrier interface{ Origin() Origin }
	if stderrors.As(err, &carrier) {
		return carrier.Origin(), true
	}

	return Origin{}, false
}
