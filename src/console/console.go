// Package console provides the user-facing output and prompting layer.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// Console writes themed status lines and reads operator answers.
// Interactive is false when stdin is not a terminal; prompts then
// return their defaults without blocking.
type Console struct {
	In          io.Reader
	Out         io.Writer
	Err         io.Writer
	Interactive bool

	// AssumeYes makes Confirm return true without prompting (--yes).
	AssumeYes bool

	// reader buffers In across prompts so type-ahead between
	// consecutive questions is not dropped.
	reader *bufio.Reader
}

// New returns a console over the process stdio, probing whether stdin
// is a terminal.
func New() *Console {
	return &Console{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", infoStyle.Render("ℹ"), fmt.Sprintf(format, args...))
}

func (c *Console) Success(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", successStyle.Render("✔"), fmt.Sprintf(format, args...))
}

func (c *Console) Warning(format string, args ...any) {
	fmt.Fprintf(c.Err, "%s %s\n", warningStyle.Render("⚠"), fmt.Sprintf(format, args...))
}

func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.Err, "%s %s\n", errorStyle.Render("✖"), fmt.Sprintf(format, args...))
}

// Confirm asks a yes/no question. Non-interactive consoles answer with
// def; AssumeYes answers true regardless.
func (c *Console) Confirm(question string, def bool) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}
	if !c.Interactive {
		return def, nil
	}
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(c.Out, "%s [%s]: ", strings.TrimSpace(question), hint)
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	ans := strings.TrimSpace(strings.ToLower(line))
	if ans == "" {
		return def, nil
	}
	return ans == "y" || ans == "yes", nil
}

// Prompt asks for a line of input, returning def on empty or
// non-interactive input.
func (c *Console) Prompt(question, def string) (string, error) {
	if !c.Interactive {
		return def, nil
	}
	if def != "" {
		fmt.Fprintf(c.Out, "%s (%s): ", strings.TrimSpace(question), def)
	} else {
		fmt.Fprintf(c.Out, "%s: ", strings.TrimSpace(question))
	}
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Panel renders a bordered block with a title, used for the install
// result summary.
func (c *Console) Panel(title string, lines []string) {
	body := titleStyle.Render(title) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(c.Out, panelStyle.Render(body))
}

func (c *Console) readLine() (string, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
