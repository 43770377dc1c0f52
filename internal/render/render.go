// Package render formats scan results for terminal output.
package render

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	devicons "github.com/epilande/go-devicons"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"

	"github.com/chmouel/lazyfossil/internal/models"
)

// Options controls how status lines are rendered.
type Options struct {
	ShowIcons bool
	Color     bool
	Width     int // 0 means detect from the terminal
}

var stateStyles = map[models.FileState]lipgloss.Style{
	models.StateUpToDate:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	models.StateEdited:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	models.StateAdded:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	models.StateNeedsUpdate:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	models.StateRemoved:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	models.StateNeedsMerge:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	models.StateUnregistered: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	models.StateUnknown:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
}

const stateColumnWidth = 12

// StatusList renders one line per FileStatus, preserving scan order.
func StatusList(statuses []models.FileStatus, opts Options) string {
	width := opts.Width
	if width == 0 {
		width = terminalWidth()
	}

	var b strings.Builder
	for _, st := range statuses {
		b.WriteString(statusLine(st, opts, width))
		b.WriteString("\n")
	}
	return b.String()
}

func statusLine(st models.FileStatus, opts Options, width int) string {
	label := fmt.Sprintf("%-*s", stateColumnWidth, string(st.State))
	if opts.Color {
		if style, ok := stateStyles[st.State]; ok {
			label = style.Render(label)
		}
	}

	line := st.Path
	if opts.ShowIcons {
		if icon := iconForPath(st.Path); icon != "" {
			line = icon + " " + line
		}
	}
	if width > 0 {
		line = truncate.StringWithTail(line, uint(maxInt(width-stateColumnWidth-1, 16)), "…")
	}
	return label + " " + line
}

// Info renders the `info` view of a checkout.
func Info(info models.RepoInfo, opts Options) string {
	id := info.CheckoutID
	if len(id) > 9 {
		id = id[:9]
	}
	lines := []string{
		"checkout: " + id,
		"date:     " + info.CheckoutTime.UTC().Format(time.DateTime) + " UTC",
		"tags:     " + info.Tags,
	}
	if opts.Color {
		header := lipgloss.NewStyle().Bold(true)
		lines[0] = header.Render(lines[0])
	}
	return strings.Join(lines, "\n") + "\n"
}

type iconFileInfo struct{ name string }

func (i iconFileInfo) Name() string       { return i.name }
func (i iconFileInfo) Size() int64        { return 0 }
func (i iconFileInfo) Mode() os.FileMode  { return 0 }
func (i iconFileInfo) ModTime() time.Time { return time.Time{} }
func (i iconFileInfo) IsDir() bool        { return false }
func (i iconFileInfo) Sys() any           { return nil }

func iconForPath(path string) string {
	if path == "" {
		return ""
	}
	return devicons.IconForInfo(iconFileInfo{name: path}).Icon
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
