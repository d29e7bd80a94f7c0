package spell

// Unit is the value of operations that return nothing.
type Unit struct{}

// Result is the tagged outcome of every operation.
//
// Success=false carries a human-readable Error and its Code.
// Absent=true (with Success=true) means a read found nothing.
type Result[T any] struct {
	Value   T         `json:"value"`
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Absent  bool      `json:"absent"`
	Code    ErrorCode `json:"code,omitempty"`
}

// Ok wraps a value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Success: true}
}

// Absent is the successful "nothing there" outcome.
func Absent[T any]() Result[T] {
	return Result[T]{Success: true, Absent: true}
}

// Fail converts err into a failed result.
func Fail[T any](err error) Result[T] {
	e := AsError(err)
	return Result[T]{Error: e.Error(), Code: e.Code}
}

// Err returns the failure as an *Error, or nil for successful results.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Code: r.Code, Message: r.Error}
}
