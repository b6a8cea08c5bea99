// Package apierrors defines the application error value: an error that is
// meant to be shown to the API user, with a stable machine-readable name,
// an HTTP code, a negative message ("what went wrong") and a positive one
// ("how to fix it").
//
// Errors are created from catalog kinds:
//
//	err := apierrors.E_NOT_FOUND.Format(
//		"Could not find the {object} by {field}",
//		"Please make sure you have entered a valid email and try again",
//		apierrors.Info{"object": "User", "field": "email"},
//	)
//
// Every non-application error can be wrapped into a generic server failure
// with Convert, so API responses never leak raw internal errors:
//
//	web.RespondError(w, apierrors.Convert(err))
package apierrors
