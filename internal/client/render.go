package client

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"wilddocs/internal/application/dto"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const markdownWordWrap = 80

// Text output styles.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(12)
)

var (
	markdownOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// renderMarkdown renders markdown for the terminal, returning content unchanged
// when the renderer is unavailable or fails.
func renderMarkdown(content string) string {
	markdownOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(markdownWordWrap),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Field is one label/value line of text output.
type Field struct {
	Label string
	Value string
}

// WriteAnswer prints a query answer as rendered markdown followed by its sources.
func WriteAnswer(w io.Writer, resp *dto.QueryResponse) error {
	var b strings.Builder

	b.WriteString(renderMarkdown(resp.Data.Answer))

	if len(resp.Data.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Sources"))
		b.WriteString("\n")
		for i, source := range resp.Data.Sources {
			fmt.Fprintf(&b, "%d. %s\n", i+1, source.Title)
			if source.URL != "" {
				fmt.Fprintf(&b, "   %s\n", dimStyle.Render(source.URL))
			}
			if excerpt := Excerpt(source.Content, dto.SourceExcerptLimit); excerpt != "" {
				fmt.Fprintf(&b, "   %s\n", excerpt)
			}
		}
	}

	if model := resp.Data.Metadata.ModelName(); model != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Model: " + model))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteProjects prints the project list, one project per block.
func WriteProjects(w io.Writer, projects []dto.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, dimStyle.Render("No projects found"))
		return err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n")
	for _, project := range projects {
		fmt.Fprintf(&b, "• %s\n", project.Name)
		if project.ReadmeURL != "" {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(project.ReadmeURL))
		}
		if project.Description != "" {
			fmt.Fprintf(&b, "  %s\n", project.Description)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFields prints a titled list of label/value pairs.
func WriteFields(w io.Writer, title string, fields []Field) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(f.Label+":"), f.Value)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSuccessText prints a highlighted success message.
func WriteSuccessText(w io.Writer, message string) error {
	_, err := fmt.Fprintln(w, successStyle.Render(message))
	return err
}

// WriteErrorText prints an error message and its code.
func WriteErrorText(w io.Writer, code, message string) error {
	_, err := fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, dimStyle.Render("("+code+")"))
	return err
}

// Excerpt collapses whitespace in content and shortens it to limit runes,
// appending "..." when truncated.
func Excerpt(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
