package apierrors

import "errors"

// The fixit message for errors the user cannot do anything about.
const unexpectedFixIt = "Please try again in a couple of minutes. " +
	"If the error does not go away, contact support and describe the issue."

// Convert turns any error into an application error. Application errors are
// returned as they are; everything else is unexpected and gets wrapped into
// F_UNEXPECTED_ERROR, keeping the original error as the cause.
//
// Convert(nil) is nil, so it can wrap a call site unconditionally.
func Convert(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return F_UNEXPECTED_ERROR.
		New(err.Error(), unexpectedFixIt).
		WithDebug("unexpected_error", err.Error()).
		WithCause(err)
}
