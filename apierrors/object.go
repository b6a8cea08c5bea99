package apierrors

// ErrorObject is the JSON representation of an application error, as
// returned by the API.
type ErrorObject struct {
	// Name is the error name: E_* or F_*.
	Name string `json:"name"`

	// Title is the generic error title, from the error kind.
	Title string `json:"title"`

	// HTTPCode is the HTTP code for the error.
	HTTPCode int `json:"httpcode"`

	// Error describes what went wrong.
	Error string `json:"error"`

	// FixIt suggests what the user can do to fix it.
	FixIt string `json:"fixit"`

	// Info is additional structured data.
	Info Info `json:"info,omitempty"`

	// Debug is server-only data. Omitted unless explicitly requested.
	Debug Info `json:"debug,omitempty"`
}

// ErrorResponse is the error envelope returned by the API.
type ErrorResponse struct {
	Error ErrorObject `json:"error"`
}

// ToObject converts the error to its JSON presentation. Debug data is only
// included when asked for; never include it in production responses.
func (e *Error) ToObject(includeDebug bool) ErrorObject {
	obj := ErrorObject{
		Name:     e.Name,
		Title:    e.Title,
		HTTPCode: e.HTTPCode,
		Error:    e.Message,
		FixIt:    e.FixIt,
		Info:     e.Info,
	}
	if includeDebug {
		obj.Debug = e.Debug
	}
	return obj
}
