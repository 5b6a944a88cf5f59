package harness

import "fmt"

// Category orders assertions; a scenario checks them in this order.
type Category string

const (
	Structural Category = "structural"
	Content    Category = "content"
	Parsed     Category = "parsed"
	External   Category = "external"
)

// AssertionFailure reports generated output that does not match an
// expectation.
type AssertionFailure struct {
	Category Category
	Subject  string
	Message  string
}

func (e *AssertionFailure) Error() string {
	return fmt.Sprintf("%s assertion on %s: %s", e.Category, e.Subject, e.Message)
}

func failf(category Category, subject, format string, args ...any) *AssertionFailure {
	return &AssertionFailure{Category: category, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// ExternalToolFailure reports a tool that could not run, exited with an
// unexpected status or printed unexpected output.
type ExternalToolFailure struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExternalToolFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

func (e *ExternalToolFailure) Unwrap() error {
	return e.Err
}
