package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"digital.vasic.challengegame/pkg/achievement"
	"digital.vasic.challengegame/pkg/persistence"
	"digital.vasic.challengegame/pkg/report"
	"digital.vasic.challengegame/pkg/statistic"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print statistics and achievements for the saved game",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "text, json, markdown or html",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				return runStats(ctx, rt, cmd.String("format"))
			})
		},
	}
}

func runStats(ctx context.Context, rt *runtime, format string) error {
	state, err := rt.store.LoadGameState(ctx)
	if errors.Is(err, persistence.ErrStateNotFound) {
		return fmt.Errorf("no saved game: %w", err)
	}
	if err != nil {
		return err
	}
	defs, err := rt.achievements()
	if err != nil {
		return err
	}

	provider := statistic.NewHistoryProvider(state.Results, len(state.Challenges))
	unlocked := achievement.NewEvaluator().Evaluate(defs, provider)
	summary := report.BuildSummary(*state, provider, unlocked)

	var renderer report.Renderer
	switch format {
	case "json":
		renderer = report.NewJSONRenderer(true)
	case "markdown", "md":
		renderer = report.MarkdownRenderer{}
	case "html":
		renderer = report.HTMLRenderer{}
	case "text", "":
		return printStats(rt, summary)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return renderer.Render(rt.out, summary)
}

func printStats(rt *runtime, s *report.Summary) error {
	out := rt.out
	fmt.Fprintf(out, "Map %s: %d/%d finished\n", s.MapID, s.Finished, s.Total)
	for _, st := range s.Statistics {
		fmt.Fprintf(out, "  %-24s %s\n", st.Name, report.FormatStatistic(st.Value, st.Text, st.Unit))
	}
	if len(s.Achievements) > 0 {
		fmt.Fprintln(out, "Achievements:")
		for _, a := range s.Achievements {
			fmt.Fprintf(out, "  * %s\n", a.Name)
		}
	}

	if rt.cfg.HistoryPath != "" {
		entries, err := report.ReadHistory(rt.cfg.HistoryPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "History: %d finished challenges recorded\n", len(entries))
	}
	return nil
}
