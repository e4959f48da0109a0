package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldSheet         = "sheet"
	FieldTransactionID = "transaction_id"
	FieldCardID        = "card_id"
	FieldKind          = "kind"
	FieldPaymentMethod = "payment_method"
	FieldAmountCents   = "amount_cents"
	FieldWarnings      = "warnings"
	FieldMessageID     = "message_id"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentTransaction = "transaction"
	ComponentCard        = "card"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentSheets      = "sheets"
	ComponentResync      = "resync"
	ComponentCache       = "cache"
	ComponentSecurity    = "security"
	ComponentRateLimit   = "rate_limit"
	ComponentTrace       = "trace"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpRead       = "read"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpDeactivate = "deactivate"
	OpList       = "list"
	OpResync     = "resync"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// Fields provides a builder for structured log attributes.
type Fields map[string]any

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithComponent(component string) Fields {
	f[FieldComponent] = component
	return f
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithTransaction adds the identifying fields of a transaction record.
func (f Fields) WithTransaction(id int64, kind, method string, amountCents int64) Fields {
	f[FieldTransactionID] = id
	f[FieldKind] = kind
	f[FieldPaymentMethod] = method
	f[FieldAmountCents] = amountCents
	return f
}

func (f Fields) WithSheet(sheet string) Fields {
	f[FieldSheet] = sheet
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts Fields to alternating key/value arguments for slog.
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
