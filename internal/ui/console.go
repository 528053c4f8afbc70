package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
)

var runConfirmPrompt = func(title string, in io.Reader, out io.Writer, ok *bool) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(ok),
	)).
		WithInput(in).
		WithOutput(out).
		Run()
}

// ConfirmFunc answers a Button prompt.
type ConfirmFunc func(label string) (bool, error)

// HuhConfirm asks a yes/no question on in and out with a huh form.
func HuhConfirm(in io.Reader, out io.Writer) ConfirmFunc {
	return func(label string) (bool, error) {
		var ok bool
		if err := runConfirmPrompt("🧪 "+label+"?", in, out, &ok); err != nil {
			return false, fmt.Errorf("prompt confirm: %w", err)
		}
		return ok, nil
	}
}

// Console renders findings as emoji-prefixed lines for a terminal.
type Console struct {
	Out io.Writer

	// AutoClick answers every Button with true (the --probe flag).
	AutoClick bool

	// Confirm, when set and AutoClick is false, is asked to press the
	// button.
	Confirm ConfirmFunc

	errors int
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) Title(text string) {
	fmt.Fprintf(c.Out, "🔍 %s\n\n", text)
}

func (c *Console) Success(text string) {
	fmt.Fprintf(c.Out, "✅ %s\n", text)
}

func (c *Console) Info(text string) {
	c.block("ℹ️ ", text)
}

func (c *Console) Warning(text string) {
	c.block("⚠️ ", text)
}

func (c *Console) Error(text string) {
	c.errors++
	fmt.Fprintf(c.Out, "❌ %s\n", text)
}

func (c *Console) Code(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(c.Out, "    %s\n", line)
	}
}

func (c *Console) Button(label string) bool {
	if c.AutoClick {
		fmt.Fprintf(c.Out, "\n🧪 %s\n", label)
		return true
	}
	if c.Confirm == nil {
		return false
	}

	ok, err := c.Confirm(label)
	if err != nil {
		fmt.Fprintf(c.Out, "\n🧪 %s skipped: %v\n", label, err)
		return false
	}
	return ok
}

func (c *Console) Spinner(label string) func() {
	fmt.Fprintf(c.Out, "⏳ %s\n", label)
	start := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() {
			fmt.Fprintf(c.Out, "   (%s)\n", time.Since(start).Round(time.Millisecond))
		})
	}
}

// Errors returns how many error findings were rendered.
func (c *Console) Errors() int {
	return c.errors
}

// block prints a multi-line message with continuation lines aligned under
// the first.
func (c *Console) block(icon, text string) {
	lines := strings.Split(strings.Trim(dedent(text), "\n"), "\n")
	fmt.Fprintf(c.Out, "%s %s\n", icon, lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(c.Out, "   %s\n", l)
	}
}

// dedent strips the common leading indentation of non-blank lines.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return s
	}
	for i, l := range lines {
		if len(l) >= indent {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
