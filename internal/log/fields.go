package log

// Field names shared by the structured log call sites.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldEmail      = "email"
)

// ComponentApp labels lines emitted during process bootstrap.
const ComponentApp = "app"
