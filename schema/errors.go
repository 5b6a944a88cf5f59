package schema

import "fmt"

// ConfigurationError reports an override the schema does not accept. It is
// always returned before any file is written.
type ConfigurationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration: %s", e.Reason)
	}
	return fmt.Sprintf("configuration %s=%q: %s", e.Key, e.Value, e.Reason)
}
