// Package ui holds the display surfaces diagnostic findings are rendered on.
package ui

// Surface is the set of primitives a diagnostic run renders through, in
// the order findings are computed.
type Surface interface {
	Title(text string)
	Success(text string)
	Info(text string)
	Warning(text string)
	Error(text string)
	Code(text string)

	// Button renders a trigger and reports whether it was activated for
	// this run.
	Button(label string) bool

	// Spinner shows a busy indicator until stop is called. stop is safe to
	// call more than once.
	Spinner(label string) (stop func())
}

type Kind string

const (
	KindTitle   Kind = "title"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
	KindCode    Kind = "code"
	KindButton  Kind = "button"

	KindSpinnerStart Kind = "spinner_start"
	KindSpinnerStop  Kind = "spinner_stop"
)

type Finding struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}
