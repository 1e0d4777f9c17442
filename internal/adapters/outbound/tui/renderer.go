package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmpack/charmpack/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderProblems renders every problem err carries as one report, so the
// author can fix them all in a single pass.
func RenderProblems(path string, err error) string {
	problems := domain.Problems(err)

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s  %s\n",
		failStyle.Render("✗"),
		fileStyle.Render(shortenPath(path)),
		errorTagStyle.Render(countLabel(len(problems), "problem")),
	)
	b.WriteString("\n")
	for _, p := range problems {
		renderProblem(&b, p)
	}
	return b.String()
}

func renderProblem(b *strings.Builder, err error) {
	var (
		conflict *domain.Conflict
		schema   *domain.SchemaError
		secret   *domain.InvalidSecretReferenceError
		oversize *domain.OversizeError
		unknown  *domain.UnknownProfileError
	)
	switch {
	case errors.As(err, &conflict):
		fmt.Fprintf(b, "    %s %s %s\n",
			errorTagStyle.Render("conflict"),
			titleStyle.Render(conflict.Name),
			dimStyle.Render("("+string(conflict.Kind)+")"),
		)
		fmt.Fprintf(b, "             %s\n", dimStyle.Render(conflict.Detail))
		for _, s := range conflict.Sources {
			fmt.Fprintf(b, "             %s %s\n", faintStyle.Render("·"), dimStyle.Render(s))
		}
	case errors.As(err, &schema):
		field := schema.Field
		if field == "" {
			field = "descriptor"
		}
		fmt.Fprintf(b, "    %s %s\n", errorTagStyle.Render("schema  "), titleStyle.Render(field))
		fmt.Fprintf(b, "             %s\n", dimStyle.Render(schema.Reason))
	case errors.As(err, &secret):
		fmt.Fprintf(b, "    %s %s\n", errorTagStyle.Render("secret  "), titleStyle.Render(secret.Option))
		fmt.Fprintf(b, "             %s\n", dimStyle.Render(fmt.Sprintf("%q is not a secret:<id> reference", secret.Value)))
	case errors.As(err, &oversize):
		fmt.Fprintf(b, "    %s %s\n", warnTagStyle.Render("limit   "), dimStyle.Render(oversize.Error()))
	case errors.As(err, &unknown):
		fmt.Fprintf(b, "    %s %s\n", errorTagStyle.Render("profile "), titleStyle.Render(unknown.Tag))
		fmt.Fprintf(b, "             %s\n", dimStyle.Render("available: "+strings.Join(unknown.Known, ", ")))
	default:
		fmt.Fprintf(b, "    %s %s\n", errorTagStyle.Render("error   "), dimStyle.Render(err.Error()))
	}
}

// RenderValidation renders the outcome of validating many descriptors.
func RenderValidation(results []domain.ValidationResult) string {
	var b strings.Builder

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}

	title := headerStyle.Render("charmpack")
	subtitle := dimStyle.Render("Descriptor validation")
	summary := passStyle.Render(fmt.Sprintf("%s ok", countLabel(len(results)-failed, "descriptor")))
	if failed > 0 {
		summary += "  " + failStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + summary))
	b.WriteString("\n\n")

	for _, r := range results {
		if !r.OK() {
			continue
		}
		detail := fmt.Sprintf("%s, %s", r.Extension, countLabel(r.Bindings, "binding"))
		if r.Extension == "" {
			detail = "no extension"
		}
		if r.Cached {
			detail += ", cached"
		}
		fmt.Fprintf(&b, "  %s %s  %s\n", passStyle.Render("✓"), fileStyle.Render(shortenPath(r.Path)), dimStyle.Render(detail))
	}

	for _, r := range results {
		if r.OK() {
			continue
		}
		b.WriteString(RenderProblems(r.Path, r.Err))
	}

	if failed > 0 {
		b.WriteString("\n  " + separatorLine + "\n")
		b.WriteString("  " + hintStyle.Render("Run charmpack expand-extensions in a project to preview the expanded descriptor.") + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// shortenPath keeps the last three path elements.
func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 3 {
		return filepath.ToSlash(path)
	}
	return ".../" + strings.Join(parts[len(parts)-3:], "/")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
