package harness

// TraceEvent records one scenario step. Repeated steps are recorded once,
// with the outcome of their last iteration.
type TraceEvent struct {
	Step    int    `json:"step"`
	Call    string `json:"call"`
	As      string `json:"as"`
	Repeat  int    `json:"repeat,omitempty"`
	Success bool   `json:"success"`
	Absent  bool   `json:"absent"`
	Value   any    `json:"value,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
