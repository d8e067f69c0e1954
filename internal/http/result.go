package httpapi

// Result is the JSON envelope of every API response.
//   - code: 2000 on success, -1 on error, 60401 when the session is gone
//   - type: 'success' | 'error' | 'warning'
//   - message: string
//   - result: any
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired goes with HTTP 401; the client redirects to sign-in.
	ResultTokenExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// FailFields carries per-field validation messages in result.
func FailFields(message string, fields map[string]string) Result[map[string]string] {
	return Result[map[string]string]{Code: ResultError, Type: "error", Message: message, Result: fields}
}

// Warn is a partial success: the mutation happened, a side effect did not.
func Warn[T any](message string, result T) Result[T] {
	return Result[T]{Code: ResultError, Type: "warning", Message: message, Result: result}
}
