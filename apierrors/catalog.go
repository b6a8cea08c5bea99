package apierrors

import "net/http"

// The default error catalog. "E_*" errors are caused by the user and can be
// fixed by them; "F_*" errors are server-side failures the user cannot fix.
var (
	// E_API_ARGUMENT: a wrong argument has been provided.
	// Info: "name", the name of the failed argument.
	E_API_ARGUMENT = Kind{"E_API_ARGUMENT", http.StatusBadRequest, "Invalid argument"}

	// E_API_ACTION: a wrong action has been requested.
	E_API_ACTION = Kind{"E_API_ACTION", http.StatusBadRequest, "Incorrect action"}

	// E_CLIENT_VALIDATION: validation errors on the provided input.
	// Info: "model", the model name; "errors", the list of failures.
	E_CLIENT_VALIDATION = Kind{"E_CLIENT_VALIDATION", http.StatusBadRequest, "Input validation error"}

	// E_AUTH_REQUIRED: the resource requires authentication.
	E_AUTH_REQUIRED = Kind{"E_AUTH_REQUIRED", http.StatusUnauthorized, "Authentication required"}

	// E_FORBIDDEN: the user is signed in, but the action is not allowed
	// for their account.
	E_FORBIDDEN = Kind{"E_FORBIDDEN", http.StatusForbidden, "Action forbidden for this user account"}

	// E_NOT_FOUND: object not found.
	// Info: "object", the name of the object that was not found.
	E_NOT_FOUND = Kind{"E_NOT_FOUND", http.StatusNotFound, "Not found"}

	// E_CONFLICT_DUPLICATE: attempting to create an object with a duplicate
	// value for a unique field.
	E_CONFLICT_DUPLICATE = Kind{"E_CONFLICT_DUPLICATE", http.StatusConflict, "Duplicate entry"}

	// F_FAIL: generic server error.
	F_FAIL = Kind{"F_FAIL", http.StatusInternalServerError, "Generic server error"}

	// F_UNEXPECTED_ERROR: an unexpected error, probably signifying a bug or
	// another sort of malfunction. Produced by Convert.
	F_UNEXPECTED_ERROR = Kind{"F_UNEXPECTED_ERROR", http.StatusInternalServerError, "Generic server error"}

	// F_NOT_IMPLEMENTED: the method is not yet implemented.
	F_NOT_IMPLEMENTED = Kind{"F_NOT_IMPLEMENTED", http.StatusNotImplemented, "Not implemented"}
)

// Catalog returns every kind of the default catalog.
func Catalog() []Kind {
	return []Kind{
		E_API_ARGUMENT,
		E_API_ACTION,
		E_CLIENT_VALIDATION,
		E_AUTH_REQUIRED,
		E_FORBIDDEN,
		E_NOT_FOUND,
		E_CONFLICT_DUPLICATE,
		F_FAIL,
		F_UNEXPECTED_ERROR,
		F_NOT_IMPLEMENTED,
	}
}
