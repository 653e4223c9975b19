// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

// Package console renders operator-facing installer output.
//
// On a terminal messages are drawn as lipgloss panels; when output is
// redirected the same messages are written as plain lines.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorInfo    = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red
	colorHeader  = lipgloss.Color("#D946EF") // Magenta
	colorBorder  = lipgloss.Color("#3B82F6") // Bright blue
	colorAccent  = lipgloss.Color("#22C55E") // Green
)

// maxPanelWidth caps panels on very wide terminals
const maxPanelWidth = 100

// Console writes installer messages
type Console struct {
	out    io.Writer
	styled bool
	width  int

	// renderer detects the colour profile of out, not of os.Stdout
	renderer *lipgloss.Renderer
}

// New creates a console on out, styled when out is a terminal
func New(out io.Writer) *Console {
	c := &Console{out: out, renderer: lipgloss.NewRenderer(out)}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.styled = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			c.width = w
		}
	}
	return c
}

// NewPlain creates an unstyled console
func NewPlain(out io.Writer) *Console {
	return &Console{out: out, renderer: lipgloss.NewRenderer(out)}
}

func (c *Console) style() lipgloss.Style {
	return c.renderer.NewStyle()
}

// Writer returns the underlying writer
func (c *Console) Writer() io.Writer {
	return c.out
}

// Banner prints the logo inside a double-bordered panel with a title line
func (c *Console) Banner(logo, title string) {
	if !c.styled {
		fmt.Fprintln(c.out, strings.Trim(logo, "\n"))
		fmt.Fprintln(c.out, title)
		return
	}
	body := strings.Trim(logo, "\n") + "\n" + c.style().Foreground(colorAccent).Bold(true).Render(title)
	banner := c.style().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	fmt.Fprintln(c.out, banner.Render(body))
}

// Header prints a section heading
func (c *Console) Header(msg string) {
	c.panel(msg, colorHeader, true)
}

// Info prints a progress message
func (c *Console) Info(msg string) {
	c.panel(msg, colorInfo, false)
}

// Success prints a completed step
func (c *Console) Success(msg string) {
	c.line("[OK] "+msg, colorSuccess)
}

// Warn prints a non-fatal problem the operator should act on
func (c *Console) Warn(msg string) {
	c.line("[!!] "+msg, colorWarning)
}

// Error prints a failed step
func (c *Console) Error(msg string) {
	c.panel("[FAILED] "+msg, colorError, false)
}

// Done prints a closing heading
func (c *Console) Done(msg string) {
	c.panel(msg, colorSuccess, true)
}

// Command prints a highlighted command the operator can run
func (c *Console) Command(cmd string) {
	if !c.styled {
		fmt.Fprintln(c.out, "    "+cmd)
		return
	}
	fmt.Fprintln(c.out, "    "+c.style().Foreground(colorInfo).Bold(true).Render(cmd))
}

// Note prints a highlighted hint
func (c *Console) Note(msg string) {
	if !c.styled {
		fmt.Fprintln(c.out, msg)
		return
	}
	fmt.Fprintln(c.out, c.style().Foreground(colorWarning).Render(msg))
}

// Println prints a plain line
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) panel(msg string, color lipgloss.Color, bold bool) {
	if !c.styled {
		fmt.Fprintln(c.out, "==> "+msg)
		return
	}

	style := c.style().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		BorderForeground(color).
		Foreground(color).
		Bold(bold)
	if c.width > 0 {
		w := c.width - 2
		if w > maxPanelWidth {
			w = maxPanelWidth
		}
		if lipgloss.Width(msg)+4 > w {
			style = style.Width(w)
		}
	}
	fmt.Fprintln(c.out, style.Render(msg))
}

func (c *Console) line(msg string, color lipgloss.Color) {
	if !c.styled {
		fmt.Fprintln(c.out, msg)
		return
	}
	fmt.Fprintln(c.out, c.style().Foreground(color).Render(msg))
}
