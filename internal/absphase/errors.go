package absphase

import "errors"

// Sentinel errors for the absolute-phase component.
var (
	// ErrMissingParameter indicates a required parameter has no value.
	ErrMissingParameter = errors.New("required parameter missing")
	// ErrAlreadySetup indicates Setup was called more than once.
	ErrAlreadySetup = errors.New("absolute phase already set up")
	// ErrNotSetup indicates the component was used before Setup succeeded.
	ErrNotSetup = errors.New("absolute phase not set up")
	// ErrUnknownParameter indicates a derivative was requested for a
	// parameter this component does not own.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrEventCount indicates the normalizer returned other than one event
	// for the reference TOA.
	ErrEventCount = errors.New("normalizer returned wrong number of events")
)

// ConfigError reports a configuration problem found during Setup. It is
// fatal: the model cannot be used until the parameter file is fixed.
type ConfigError struct {
	Component string
	Param     string
	Msg       string
	Err       error
}

// Error returns the component, parameter, and message.
func (e *ConfigError) Error() string {
	return e.Component + ": " + e.Param + ": " + e.Msg
}

// Unwrap returns the underlying sentinel for use with errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
