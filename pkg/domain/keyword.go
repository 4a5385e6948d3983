package domain

// ArgSpec describes a single keyword argument.
// Arguments without a default are required; the ordered spec list is the
// contract exposed through get_keyword_arguments.
type ArgSpec struct {
	Name       string `json:"name"`
	HasDefault bool   `json:"has_default,omitempty"`
	Default    any    `json:"default,omitempty"`
}

// Arg declares a required keyword argument.
func Arg(name string) ArgSpec {
	return ArgSpec{Name: name}
}

// ArgDefault declares an optional keyword argument with a default value.
func ArgDefault(name string, value any) ArgSpec {
	return ArgSpec{Name: name, HasDefault: true, Default: value}
}

// Run statuses reported to remote callers.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// RunResult is the structured outcome of a remote keyword invocation.
// Failures from the underlying keyword are converted into Status FAIL with
// the message and traceback text preserved; they never crash the transport.
type RunResult struct {
	Status    string `json:"status"`
	Return    any    `json:"return,omitempty"`
	Error     string `json:"error,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

// Pass builds a PASS result carrying a return value.
func Pass(ret any) RunResult {
	return RunResult{Status: StatusPass, Return: ret}
}

// Fail builds a FAIL result carrying the failure message and optional
// traceback text.
func Fail(message, traceback string) RunResult {
	return RunResult{Status: StatusFail, Error: message, Traceback: traceback}
}
