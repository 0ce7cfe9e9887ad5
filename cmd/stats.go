package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"focustimer/internal/core/model"
	"focustimer/internal/history"
)

var (
	statsHeaderStyle = lipgloss.NewStyle().Bold(true)
	statsLabelStyle  = lipgloss.NewStyle().Width(14)
	statsCellStyle   = lipgloss.NewStyle().Width(11).Align(lipgloss.Right)
	statsMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

type statsOptions struct {
	since  string
	recent int
}

func newStatsCmd(env *environment) *cobra.Command {
	options := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed and skipped sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, env, options)
		},
	}
	cmd.Flags().StringVar(&options.since, "since", "", "only count sessions since this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&options.recent, "recent", 5, "number of recent transitions to list")
	return cmd
}

func runStats(cmd *cobra.Command, env *environment, options *statsOptions) error {
	path, err := env.historyPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			env.logger.Warn().Err(cerr).Msg("close history")
		}
	}()

	var since time.Time
	if options.since != "" {
		since, err = time.ParseInLocation(time.DateOnly, options.since, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", options.since, err)
		}
	}

	ctx := cmd.Context()
	summary, err := store.Summarize(ctx, since)
	if err != nil {
		return err
	}
	now := time.Now()
	today, err := store.Summarize(ctx, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	if err != nil {
		return err
	}
	recent, err := store.Recent(ctx, options.recent)
	if err != nil {
		return err
	}

	renderStats(cmd.OutOrStdout(), summary, today, recent)
	return nil
}

func renderStats(out io.Writer, summary, today history.Summary, recent []history.Transition) {
	var b strings.Builder

	b.WriteString(statsHeaderStyle.Render("Sessions"))
	b.WriteString("\n")
	b.WriteString(statsLabelStyle.Render("") +
		statsCellStyle.Render("completed") +
		statsCellStyle.Render("skipped") +
		statsCellStyle.Render("time"))
	b.WriteString("\n")
	for _, phase := range model.Phases {
		totals := summary.ByPhase[phase]
		b.WriteString(statsLabelStyle.Render(phase.Title()) +
			statsCellStyle.Render(fmt.Sprintf("%d", totals.Completed)) +
			statsCellStyle.Render(fmt.Sprintf("%d", totals.Skipped)) +
			statsCellStyle.Render(formatSeconds(totals.ElapsedSeconds)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Focus time: %s across %d runs\n", formatSeconds(summary.FocusSeconds()), summary.Runs)
	fmt.Fprintf(&b, "Today: %d work sessions completed, %s focused\n",
		today.ByPhase[model.PhaseWork].Completed, formatSeconds(today.FocusSeconds()))
	if !summary.LastSeen.IsZero() {
		b.WriteString(statsMutedStyle.Render("Last session: " + summary.LastSeen.Local().Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}

	if len(recent) > 0 {
		b.WriteString("\n")
		b.WriteString(statsHeaderStyle.Render("Recent"))
		b.WriteString("\n")
		for _, transition := range recent {
			fmt.Fprintf(&b, "%s  %s -> %s  %s  %s\n",
				transition.OccurredAt.Local().Format("01-02 15:04"),
				transition.From.Title(),
				transition.To.Title(),
				transition.Reason,
				formatSeconds(transition.ElapsedSeconds))
		}
	}

	fmt.Fprint(out, b.String())
}

// formatSeconds renders a duration as "1h05m" or "12m".
func formatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
