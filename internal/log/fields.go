package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUser        = "user"
	FieldYearMonth   = "year_month"
	FieldExpenseID   = "expense_id"
	FieldExpenseDesc = "expense_title"
	FieldAmount      = "amount"
	FieldSalary      = "salary"
	FieldTotal       = "total_spent"
	FieldKey         = "key"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentLedger    = "ledger"
	ComponentDirectory = "directory"
	ComponentSession   = "session"
	ComponentHistory   = "history"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentAMQP      = "amqp"
	ComponentChart     = "chart"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpClear    = "clear"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpSignup   = "signup"
	OpReset    = "reset_password"
	OpDecode   = "decode"
	OpRender   = "render"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithLedger adds the partition a ledger record lives in
func (f LogFields) WithLedger(user, yearMonth string) LogFields {
	f[FieldUser] = user
	f[FieldYearMonth] = yearMonth
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id, title, amount string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseDesc] = title
	f[FieldAmount] = amount
	return f
}

// WithKey adds the storage key field
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
