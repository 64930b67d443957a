package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Out receives regular output
	Out io.Writer = os.Stdout
	// ErrOut receives error output
	ErrOut io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(ErrOut, ErrorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+message))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+message))
}

// PrintSection prints a section header
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)

	fmt.Fprintln(Out, section)
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, rendered)
	return nil
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Out, "  • %s\n", item)
	}
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Fprint(Out, out)
	return nil
}

// PrintBox prints content in a box
func PrintBox(title string, content string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				TitleStyle.Render(title),
				content,
			),
		)

	fmt.Fprintln(Out, box)
}

var (
	keywordColor     = color.New(color.FgCyan, color.Bold)
	placeholderColor = color.New(color.FgYellow)

	sqlWord = regexp.MustCompile(`\$\d+|\?|\b[A-Z]+\b`)

	sqlKeywords = map[string]bool{
		"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
		"NOT": true, "ORDER": true, "BY": true, "ASC": true, "DESC": true,
		"LIMIT": true, "OFFSET": true, "INSERT": true, "REPLACE": true,
		"INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
		"DELETE": true, "RETURNING": true, "NULL": true,
	}
)

// HighlightSQL colors keywords and placeholders of a compiled statement.
// Output is unchanged when color is disabled.
func HighlightSQL(sql string) string {
	return sqlWord.ReplaceAllStringFunc(sql, func(word string) string {
		switch {
		case word == "?" || strings.HasPrefix(word, "$"):
			return placeholderColor.Sprint(word)
		case sqlKeywords[word]:
			return keywordColor.Sprint(word)
		default:
			return word
		}
	})
}

// FormatValue renders a bound or scanned value for display
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", val)
	case []byte:
		return fmt.Sprintf("%q", string(val))
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// PrintValues prints bound values as a numbered table
func PrintValues(values []interface{}) error {
	if len(values) == 0 {
		fmt.Fprintln(Out, SecondaryStyle.Render("(no bound values)"))
		return nil
	}

	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%T", v), FormatValue(v)}
	}
	return PrintTable([]string{"#", "Type", "Value"}, rows)
}
