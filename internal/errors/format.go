package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	codeStyle   = lipgloss.NewStyle().Bold(true)
	causeStyle  = lipgloss.NewStyle().Faint(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	plainOutput bool
)

// DisableColors makes Format emit plain text.
func DisableColors() { plainOutput = true }

// EnableColors restores styled output. Styles still degrade to plain text
// when the terminal has no color support.
func EnableColors() { plainOutput = false }

func render(s lipgloss.Style, text string) string {
	if plainOutput {
		return text
	}
	return s.Render(text)
}

// Format returns the error formatted for terminal display:
//
//	ERROR L008: revalidation cascade exceeded
//
//	  12 batches
//
//	  caused by: ...
//
//	  Hint: ...
func (e *Error) Format() string {
	var b strings.Builder

	head := "ERROR:"
	if e.Code != "" {
		head = "ERROR " + e.Code + ":"
	}
	b.WriteString(render(headStyle, head) + " " + render(codeStyle, e.Message) + "\n")

	section := func(text string) {
		b.WriteString("\n  " + text + "\n")
	}
	if e.Detail != "" {
		section(e.Detail)
	}
	if e.Wrapped != nil {
		section(render(causeStyle, "caused by: "+e.Wrapped.Error()))
	}
	if e.Suggestion != "" {
		section(render(hintStyle, "Hint:") + " " + e.Suggestion)
	}
	return b.String()
}

// Fprint writes err to w, formatted when it is an *Error.
func Fprint(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "%s %s\n", render(headStyle, "Error:"), err)
}
