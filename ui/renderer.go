package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chrismacdonaldw/kattis-grind/ui/messages"
)

var (
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	gray   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

// maxShownLines keeps a failing sample with huge output readable.
const maxShownLines = 20

// Renderer prints test and judge progress as messages arrive.
type Renderer struct {
	out io.Writer
	// ShowPassing also prints input and output of passing samples.
	ShowPassing bool
	judging     bool
}

func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

func (r *Renderer) Send(msg messages.Msg) {
	switch msg := msg.(type) {
	case messages.StartRunMsg:
		header := fmt.Sprintf("%s (%s): %d sample(s)", msg.Problem, msg.Language, msg.Samples)
		fmt.Fprintln(r.out, cyan.Render("● ")+header)

	case messages.CompileMsg:
		fmt.Fprintln(r.out, gray.Render("  compiling: "+msg.Command))

	case messages.CompileFailedMsg:
		fmt.Fprintln(r.out, "  "+red.Render("✗ Compile error"))
		r.block(red, msg.Output)

	case messages.ResolveSampleMsg:
		r.sample(msg)

	case messages.SummaryMsg:
		fmt.Fprintln(r.out)
		if msg.Total > 0 && msg.Passed == msg.Total {
			fmt.Fprintln(r.out, green.Render(fmt.Sprintf("✓ All %d samples passed!", msg.Total)))
		} else {
			fmt.Fprintln(r.out, red.Render(fmt.Sprintf("✗ %d/%d samples passed", msg.Passed, msg.Total)))
		}

	case messages.SubmittedMsg:
		fmt.Fprintln(r.out, cyan.Render("● ")+"Submission "+msg.ID)
		fmt.Fprintln(r.out, gray.Render("  "+msg.URL))

	case messages.JudgeProgressMsg:
		r.progress(msg)

	case messages.VerdictMsg:
		r.verdict(msg)
	}
}

func (r *Renderer) sample(msg messages.ResolveSampleMsg) {
	connector := "├─"
	if msg.Index == msg.Total-1 {
		connector = "└─"
	}

	icon := red.Render("✗")
	if msg.Passed {
		icon = green.Render("✓")
	}
	status := msg.Verdict
	switch {
	case msg.Passed:
		status = green.Render(status)
	case msg.TimedOut:
		status = yellow.Render(status)
	default:
		status = red.Render(status)
	}
	fmt.Fprintf(r.out, "  %s %s sample %s %s %s\n", connector, icon, msg.Name, status,
		gray.Render(fmt.Sprintf("(%dms)", msg.Duration.Milliseconds())))

	if msg.Passed && !r.ShowPassing {
		return
	}

	indent := "     "
	if msg.Stdin != "" {
		fmt.Fprintln(r.out, indent+cyan.Render("Input:"))
		r.block(gray, msg.Stdin)
	}
	fmt.Fprintln(r.out, indent+cyan.Render("Expected:"))
	r.block(gray, msg.Expected)
	fmt.Fprintln(r.out, indent+cyan.Render("Got:"))
	r.block(gray, msg.Stdout)

	if msg.Crashed {
		fmt.Fprintln(r.out, indent+red.Render(fmt.Sprintf("Exit code %d", msg.ExitCode)))
	}
	if msg.Stderr != "" {
		fmt.Fprintln(r.out, indent+red.Render("Error:"))
		r.block(red, msg.Stderr)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) block(style lipgloss.Style, text string) {
	indent := "       "
	text = strings.TrimRight(text, "\n")
	if text == "" {
		fmt.Fprintln(r.out, indent+gray.Render("(no output)"))
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == maxShownLines {
			fmt.Fprintln(r.out, indent+gray.Render(fmt.Sprintf("... %d more line(s)", len(lines)-i)))
			return
		}
		fmt.Fprintln(r.out, indent+style.Render(line))
	}
}

func (r *Renderer) progress(msg messages.JudgeProgressMsg) {
	if msg.Final {
		return
	}
	r.judging = true
	line := msg.Status + "..."
	if msg.Total > 0 {
		line = fmt.Sprintf("Test cases: [%-*s] %d / %d", msg.Total, msg.Marks, msg.Done, msg.Total)
	}
	fmt.Fprint(r.out, "\r\033[K"+gray.Render(line))
}

func (r *Renderer) verdict(msg messages.VerdictMsg) {
	if r.judging {
		fmt.Fprint(r.out, "\r\033[K")
		r.judging = false
	}
	text := msg.Status
	if msg.CPUTime != "" {
		text += " (" + msg.CPUTime + ")"
	}
	if msg.Accepted {
		fmt.Fprintln(r.out, green.Render("✓ "+text))
		return
	}
	fmt.Fprintln(r.out, red.Render("✗ "+text))
	if msg.CompilerOutput != "" {
		r.block(red, msg.CompilerOutput)
	}
}
