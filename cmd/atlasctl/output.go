package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	formatText = "text"
	formatJSON = "json"
)

const noResults = "검색 결과가 없습니다"

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// outputter is a command result that can be printed as JSON or as text.
type outputter interface {
	data() any
	text(w io.Writer, st styles)
}

func write(w io.Writer, format string, st styles, o outputter) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o.data())
	}
	o.text(w, st)
	return nil
}

// colorEnabled reports whether w is a terminal that should receive ANSI colors.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type styles struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	header   lipgloss.Style
	dim      lipgloss.Style
	accent   lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4A90D9")),
		header:   r.NewStyle().Bold(true),
		dim:      r.NewStyle().Foreground(lipgloss.Color("245")),
		accent:   r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		good:     r.NewStyle().Foreground(lipgloss.Color("42")),
		bad:      r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (s styles) table(headers []string, rows [][]string) string {
	cell := s.renderer.NewStyle().Padding(0, 1)
	head := s.header.Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.dim).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
