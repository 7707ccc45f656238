package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	OverGoalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func (c *Context) Title(s string) {
	c.Println(TitleStyle.Render(s))
}

func (c *Context) Field(label string, value interface{}) {
	c.Println(LabelStyle.Render(label) + ValueStyle.Render(fmt.Sprint(value)))
}

func (c *Context) Success(format string, args ...interface{}) {
	c.Println(SuccessStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

func (c *Context) Warn(format string, args ...interface{}) {
	c.Println(WarningStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

// ProgressBar renders value/goal as a fixed-width bar
func ProgressBar(value, goal, width int) string {
	if goal <= 0 || width <= 0 {
		return ""
	}
	filled := value * width / goal
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if value > goal {
		return OverGoalStyle.Render(bar)
	}
	return SuccessStyle.Render(bar)
}
