package internal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	aiStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	overlayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// RenderChatMessage formats one chat message for the terminal. Role
// dispatch happens here and nowhere else.
func RenderChatMessage(msg ChatMessage) string {
	ts := dimStyle.Render(msg.Timestamp.Format("15:04:05"))
	switch msg.Role {
	case RoleUser:
		return fmt.Sprintf("%s %s %s", ts, userStyle.Render("you:"), msg.Content)
	case RoleAI:
		return fmt.Sprintf("%s %s %s", ts, aiStyle.Render("ai: "), msg.Content)
	case RoleSystem:
		return fmt.Sprintf("%s %s", ts, systemStyle.Render("⚠ "+msg.Content))
	default:
		return fmt.Sprintf("%s %s", ts, msg.Content)
	}
}

// RenderChatHistory formats the whole transcript.
func RenderChatHistory(messages []ChatMessage) string {
	if len(messages) == 0 {
		return dimStyle.Render("No messages yet.")
	}
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, RenderChatMessage(msg))
	}
	return strings.Join(lines, "\n")
}

// RenderSubtitleTable formats the subtitle collection as an aligned
// table.
func RenderSubtitleTable(w io.Writer, subtitles []Subtitle) {
	if len(subtitles) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No subtitles."))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d subtitle(s)", len(subtitles))))
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "#\tStart\tEnd\tText\tStyle\t")
	for i, sub := range subtitles {
		style := fmt.Sprintf("%s %d %s %s", sub.FontFamily, sub.FontSize, sub.Color, sub.Position)
		if sub.Bold {
			style += " bold"
		}
		if sub.Italic {
			style += " italic"
		}
		text := sub.Text
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", i+1, FormatTimecode(sub.StartTime), FormatTimecode(sub.EndTime), text, dimStyle.Render(style))
	}
	_ = tw.Flush()
}

// RenderOverlay formats the active subtitle line shown during
// playback; empty when no cue is active.
func RenderOverlay(sub *Subtitle) string {
	if sub == nil {
		return ""
	}
	text := sub.Text
	styled := overlayStyle
	if sub.Bold {
		styled = styled.Bold(true)
	}
	if sub.Italic {
		styled = styled.Italic(true)
	}
	return styled.Render(text)
}

// FormatTimecode renders seconds as m:ss.mmm.
func FormatTimecode(t float64) string {
	if t < 0 {
		t = 0
	}
	minutes := int(t) / 60
	seconds := t - float64(minutes*60)
	return fmt.Sprintf("%d:%06.3f", minutes, seconds)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("%s %s\n", dimStyle.Render("ℹ"), message)
}
