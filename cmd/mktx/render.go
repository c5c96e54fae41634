package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mktcontext/internal/job"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	statusStyles = map[job.Status]lipgloss.Style{
		job.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		job.StatusRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")),
		job.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		job.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		job.StatusCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
	}
)

func renderStatus(s job.Status) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

func renderScore(scored bool, score float64) string {
	if !scored {
		return mutedStyle.Render("n/a")
	}
	return fmt.Sprintf("%.1f/10", score)
}

// renderJobTable renders jobs as a padded column table, newest first.
func renderJobTable(jobs []*job.Job) string {
	headers := []string{"ID", "STRATEGY", "PERIOD", "STATUS", "SCORE", "ITER"}
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			j.ShortID(),
			j.Request.StrategyName,
			j.Request.Period(),
			string(j.Status),
			renderScore(j.FinalScored, j.FinalScore),
			fmt.Sprintf("%d", len(j.Iterations)),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")
	for r, row := range rows {
		for i, cell := range row {
			rendered := cellStyle.Width(widths[i]).Render(cell)
			if i == 3 {
				rendered = cellStyle.Width(widths[i]).Render(renderStatus(jobs[r].Status))
			}
			sb.WriteString(rendered)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderJobDetail renders a single job with its request, status and result.
func renderJobDetail(j *job.Job) string {
	if j == nil {
		return mutedStyle.Render("job not found")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Market Context for %s - %s", j.Request.StrategyName, j.Request.Period())))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Job:"), j.ShortID()))
	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Status:"), renderStatus(j.Status)))
	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Benchmark:"), j.Request.Benchmark))
	sb.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Iterations:"), len(j.Iterations)))

	switch j.Status {
	case job.StatusCompleted:
		sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Score:"), renderScore(j.FinalScored, j.FinalScore)))
		sb.WriteString("\n")
		sb.WriteString(j.FinalText)
		sb.WriteString("\n")
	case job.StatusFailed:
		sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Error:"), j.Error))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderIterations renders a compact per-iteration history.
func renderIterations(iterations []job.Iteration) string {
	if len(iterations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Iterations"))
	sb.WriteString("\n")
	for _, it := range iterations {
		line := fmt.Sprintf("  #%d  score=%s  words=%d", it.Index, renderScore(it.Scored, it.Score), it.WordCount())
		if it.GenErr != "" {
			line = fmt.Sprintf("  #%d  %s", it.Index, statusStyles[job.StatusFailed].Render("generation failed: "+it.GenErr))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		if it.Feedback != "" {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("      feedback: %s", truncate(it.Feedback, 100))))
			sb.WriteString("\n")
		}
		if len(it.MissingData) > 0 {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("      missing data: %d prompt(s)", len(it.MissingData))))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderSummary renders per-status job counts.
func renderSummary(s job.Summary) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Job Summary"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Total:"), s.Total))
	sb.WriteString(fmt.Sprintf("  %s %d\n", renderStatus(job.StatusPending)+":", s.Pending))
	sb.WriteString(fmt.Sprintf("  %s %d\n", renderStatus(job.StatusRunning)+":", s.Running))
	sb.WriteString(fmt.Sprintf("  %s %d\n", renderStatus(job.StatusCompleted)+":", s.Completed))
	sb.WriteString(fmt.Sprintf("  %s %d\n", renderStatus(job.StatusFailed)+":", s.Failed))
	sb.WriteString(fmt.Sprintf("  %s %d", renderStatus(job.StatusCancelled)+":", s.Cancelled))
	return sb.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
