package ui

import "sync"

// Recorder is a Surface that keeps every finding in order. The web handler
// renders from it and tests assert against it.
type Recorder struct {
	// Clicked is the answer Button gives.
	Clicked bool

	Findings []Finding
}

func NewRecorder(clicked bool) *Recorder {
	return &Recorder{Clicked: clicked}
}

func (r *Recorder) add(k Kind, text string) {
	r.Findings = append(r.Findings, Finding{Kind: k, Text: text})
}

func (r *Recorder) Title(text string)   { r.add(KindTitle, text) }
func (r *Recorder) Success(text string) { r.add(KindSuccess, text) }
func (r *Recorder) Info(text string)    { r.add(KindInfo, text) }
func (r *Recorder) Warning(text string) { r.add(KindWarning, text) }
func (r *Recorder) Error(text string)   { r.add(KindError, text) }
func (r *Recorder) Code(text string)    { r.add(KindCode, text) }

func (r *Recorder) Button(label string) bool {
	r.add(KindButton, label)
	return r.Clicked
}

func (r *Recorder) Spinner(label string) func() {
	r.add(KindSpinnerStart, label)
	var once sync.Once
	return func() {
		once.Do(func() { r.add(KindSpinnerStop, label) })
	}
}

// Visible returns the findings a reader sees: spinner bookkeeping and the
// button itself are dropped.
func (r *Recorder) Visible() []Finding {
	out := make([]Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		switch f.Kind {
		case KindSpinnerStart, KindSpinnerStop, KindButton:
			continue
		}
		out = append(out, f)
	}
	return out
}

// Has reports whether any finding of kind k was recorded.
func (r *Recorder) Has(k Kind) bool {
	for _, f := range r.Findings {
		if f.Kind == k {
			return true
		}
	}
	return false
}

// Count returns the number of findings of kind k.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == k {
			n++
		}
	}
	return n
}
