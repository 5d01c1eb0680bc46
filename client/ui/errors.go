package ui

// ActionableError carries a message safe to put on the kiosk display.
type ActionableError struct {
	Message string
}

func (e *ActionableError) Error() string {
	return e.Message
}

// FatalError is shown on the full-screen failure panel. ReportPath points at
// the crash report written for the incident so staff can collect it.
type FatalError struct {
	Message    string
	ReportPath string
}

func (e *FatalError) Error() string {
	return e.Message
}
