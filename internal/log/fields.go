package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldAccount     = "account"
	FieldUsername    = "username"
	FieldPosition    = "position"
	FieldMonth       = "month"
	FieldCategory    = "category"
	FieldResponsible = "responsible"
	FieldAmount      = "amount"
	FieldKind        = "kind"
	FieldRows        = "rows"
	FieldChart       = "chart"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentReport = "report"
	ComponentCharts = "charts"
	ComponentAuth   = "auth"
)
