package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/resources"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorAmber = lipgloss.Color("#f59e0b")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	pendingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
)

// isInteractiveTTY is a variable so tests can force plain output.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func printResponse(res resources.Response, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(res)
	}

	var b strings.Builder
	styled := isInteractiveTTY()
	render := func(style lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return style.Render(s)
	}

	fmt.Fprintf(&b, "%s %s %s\n", render(titleStyle, res.TypeName), res.Operation, render(statusStyle(res.Status), string(res.Status)))
	switch res.Status {
	case engine.StatusFailed:
		fmt.Fprintf(&b, "  %s %s\n", render(dimStyle, string(res.ErrorCode)+":"), res.Message)
	case engine.StatusInProgress:
		fmt.Fprintf(&b, "  %s\n", render(dimStyle, fmt.Sprintf("check again in %ds", res.DelaySeconds)))
	}

	if len(res.Model) > 0 {
		body, err := yaml.JSONToYAML(res.Model)
		if err != nil {
			return fmt.Errorf("failed to render model: %w", err)
		}
		b.WriteString(indent(string(body)))
	}
	_, err := fmt.Fprint(stdout, b.String())
	return err
}

func printList(typeName string, models []json.RawMessage, nextToken string, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(struct {
			TypeName  string            `json:"typeName"`
			Models    []json.RawMessage `json:"models"`
			NextToken string            `json:"nextToken,omitempty"`
		}{typeName, models, nextToken})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", typeName, len(models))
	for _, m := range models {
		body, err := yaml.JSONToYAML(m)
		if err != nil {
			return fmt.Errorf("failed to render model: %w", err)
		}
		b.WriteString("---\n")
		b.WriteString(string(body))
	}
	if nextToken != "" {
		fmt.Fprintf(&b, "# next token: %s\n", nextToken)
	}
	_, err := fmt.Fprint(stdout, b.String())
	return err
}

func statusStyle(s engine.Status) lipgloss.Style {
	switch s {
	case engine.StatusSuccess:
		return successStyle
	case engine.StatusFailed:
		return failedStyle
	default:
		return pendingStyle
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func printRow(name string, ok bool, extra string) {
	indicator := "✅"
	if !ok {
		indicator = "❌"
	}
	if extra != "" {
		fmt.Fprintf(stdout, "  %s  %-20s %s\n", indicator, name, extra)
	} else {
		fmt.Fprintf(stdout, "  %s  %s\n", indicator, name)
	}
}
