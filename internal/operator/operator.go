// Package operator is the interactive surface a sorting run talks to.
package operator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// Operator asks questions and shows results to the person running the tool.
type Operator interface {
	// Prompt returns the trimmed answer, or def when the answer is empty.
	Prompt(question, def string) string
	// Confirm asks a yes/no question.
	Confirm(question string, def bool) bool
	Table(headers []string, rows [][]string)
	Report(level slog.Level, msg string)
}

// Console is an Operator on a line-oriented terminal.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	colorize bool
	closed   bool
}

// NewConsole creates a console reading answers from in and writing to out.
// Colour is used only when out is a terminal.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       bufio.NewReader(in),
		out:      out,
		colorize: shouldColorize(out),
	}
}

// Prompt shows a prompt with the default value in brackets.
// End of input answers with the default.
func (c *Console) Prompt(question, def string) string {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", question)
	}

	input, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return def
	}
	if errors.Is(err, io.EOF) && input == "" {
		c.closed = true
		fmt.Fprintln(c.out)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// InputClosed reports whether a prompt has hit the end of input.
func (c *Console) InputClosed() bool {
	return c.closed
}

// InputClosed reports whether op can no longer read answers. Operators that
// cannot tell are assumed open.
func InputClosed(op Operator) bool {
	c, ok := op.(interface{ InputClosed() bool })
	return ok && c.InputClosed()
}

// Confirm asks until the answer is yes, no or empty.
func (c *Console) Confirm(question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for range 3 {
		switch strings.ToLower(c.Prompt(question+" ("+hint+")", "")) {
		case "":
			return def
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		c.Report(slog.LevelWarn, "Please answer y or n")
	}
	return def
}

// Table renders rows under headers. Short rows are padded.
func (c *Console) Table(headers []string, rows [][]string) {
	columns := len(headers)
	if columns == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if !c.colorize {
		tw.Style().Color = table.ColorOptions{}
	}

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	fmt.Fprintln(c.out, tw.Render())
}

// Report prints a levelled message.
func (c *Console) Report(level slog.Level, msg string) {
	line := fmt.Sprintf("[%s] %s", levelLabel(level), msg)
	if c.colorize {
		line = levelColors(level).Sprint(line)
	}
	fmt.Fprintln(c.out, line)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func levelColors(level slog.Level) text.Colors {
	switch {
	case level >= slog.LevelError:
		return text.Colors{text.FgRed, text.Bold}
	case level >= slog.LevelWarn:
		return text.Colors{text.FgYellow}
	case level >= slog.LevelInfo:
		return text.Colors{text.FgGreen}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Size formats a byte count for display, e.g. "40 MB".
func Size(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
