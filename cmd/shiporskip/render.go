package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/roshanshetty271/ShipOrSkip/research"
	"github.com/roshanshetty271/ShipOrSkip/store"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	warning     = lipgloss.Color("#FFC107")
	muted       = lipgloss.Color("#8a94a6")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	progressStyle = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(destructive)
	verdictStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(80)
)

var levelColors = map[string]lipgloss.Color{
	"low":    accent,
	"medium": warning,
	"high":   destructive,
}

func levelBadge(level string) string {
	c, ok := levelColors[level]
	if !ok {
		c = muted
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(strings.ToUpper(level))
}

func renderEvent(e research.ProgressEvent) string {
	switch e.Kind {
	case research.EventError:
		return errorStyle.Render("✗ " + e.Message)
	case research.EventDone:
		if e.Report == nil {
			return titleStyle.Render("✓ done")
		}
		return renderReport(e.Report)
	}
	line := fmt.Sprintf("[%3d%%] %s", e.Percent, e.Message)
	if e.RunID != "" {
		line += "  run " + e.RunID
	}
	return progressStyle.Render(line)
}

func bullets(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + headingStyle.Render(heading) + "\n")
	for _, it := range items {
		sb.WriteString("  • " + it + "\n")
	}
}

func renderReport(r *research.AnalysisReport) string {
	var sb strings.Builder
	sb.WriteString("\n" + titleStyle.Render("ShipOrSkip verdict") + "  market saturation " + levelBadge(r.MarketSaturation) + "\n")
	sb.WriteString(verdictStyle.Render(r.Verdict) + "\n")

	if len(r.Competitors) > 0 {
		sb.WriteString("\n" + headingStyle.Render("Competitors") + "\n")
		for _, c := range r.Competitors {
			fmt.Fprintf(&sb, "  %s %s", levelBadge(c.ThreatLevel), lipgloss.NewStyle().Bold(true).Render(c.Name))
			if c.URL != "" {
				sb.WriteString(" " + progressStyle.Render(c.URL))
			}
			sb.WriteString("\n")
			if c.Description != "" {
				sb.WriteString("      " + c.Description + "\n")
			}
			if c.Differentiator != "" {
				sb.WriteString("      " + progressStyle.Render("edge: "+c.Differentiator) + "\n")
			}
		}
	}

	bullets(&sb, "Pros", r.Pros)
	bullets(&sb, "Cons", r.Cons)
	bullets(&sb, "Gaps", r.Gaps)
	bullets(&sb, "Build plan", r.BuildPlan)

	if len(r.Sources) > 0 {
		sb.WriteString("\n" + headingStyle.Render(fmt.Sprintf("Sources (%d)", len(r.Sources))) + "\n")
		for _, s := range r.Sources {
			fmt.Fprintf(&sb, "  [%s] %s %s\n", s.SourceType, s.Title, progressStyle.Render(s.URL))
		}
	}
	return sb.String()
}

func renderCheckpoints(runID string, cps []*store.Checkpoint) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Run "+runID) + "\n")
	if len(cps) == 0 {
		sb.WriteString(progressStyle.Render("no checkpoints") + "\n")
		return sb.String()
	}
	for _, cp := range cps {
		fmt.Fprintf(&sb, "%2d  %-40s %s\n", cp.Step, cp.NodeName, progressStyle.Render(cp.Timestamp.Format("15:04:05.000")))
		for _, key := range []string{"hits", "candidates", "sources", "readmes", "pages", "context_chars", "failure", "competitors"} {
			if v, ok := cp.State[key]; ok {
				fmt.Fprintf(&sb, "      %s: %v\n", key, v)
			}
		}
	}
	return sb.String()
}
