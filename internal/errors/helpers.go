package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap returns the cause of err, or nil
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join combines errs into one error that lists every one of them. Nil
// entries are dropped; Join returns nil when nothing is left.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// HasCode reports whether any error in the chain carries the given code.
// GetCode only looks at the outermost *Error, which hides the cause of a
// resolution failure.
func HasCode(err error, code Code) bool {
	for err != nil {
		var customErr *Error
		if !errors.As(err, &customErr) {
			return false
		}
		if customErr.Code == code {
			return true
		}
		err = customErr.Cause
	}
	return false
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsCanceled checks if an error is a canceled error
func IsCanceled(err error) bool {
	return GetCode(err) == CodeCanceled
}

// IsNetwork checks if an error is a network error
func IsNetwork(err error) bool {
	return GetCode(err) == CodeNetwork
}

// IsProtocol checks if an error is a protocol error
func IsProtocol(err error) bool {
	return GetCode(err) == CodeProtocol
}

// IsEncoding checks if an error is an encoding error
func IsEncoding(err error) bool {
	return GetCode(err) == CodeEncoding
}

// IsDecode checks if an error is a decode error
func IsDecode(err error) bool {
	return GetCode(err) == CodeDecode
}

// IsNameNotFound checks if an error is a name not found error
func IsNameNotFound(err error) bool {
	return GetCode(err) == CodeNameNotFound
}

// IsResolution checks if an error is a resolution error
func IsResolution(err error) bool {
	return GetCode(err) == CodeResolution
}
