package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"digital.vasic.challengegame/pkg/achievement"
	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/command"
	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/game"
	"digital.vasic.challengegame/pkg/logging"
	"digital.vasic.challengegame/pkg/persistence"
	"digital.vasic.challengegame/pkg/report"
	"digital.vasic.challengegame/pkg/session"
	"digital.vasic.challengegame/pkg/statistic"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play the map, reading commands from stdin",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				g, err := startGame(ctx, rt)
				if err != nil {
					return err
				}
				loopErr := g.loop(ctx, cmd.Root().Reader)
				return finishGame(g, loopErr)
			})
		},
	}
}

// liveGame is one session with its subscribers attached.
type liveGame struct {
	rt        *runtime
	session   *session.Session
	autosaver *persistence.Autosaver
	tracker   *achievement.Tracker
	restored  bool
}

func startGame(ctx context.Context, rt *runtime) (*liveGame, error) {
	state, restored, err := rt.loadState(ctx)
	if err != nil {
		return nil, err
	}
	defs, err := rt.achievements()
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(rt.logger, game.WithMetrics(rt.metrics))
	sess := manager.Create(state)
	bus := sess.Controller().Bus()
	g := &liveGame{rt: rt, session: sess, restored: restored}

	bus.Observe(func(e event.Event) {
		fmt.Fprintln(rt.out, describeEvent(e))
		if ce, ok := e.(event.ChallengeEvent); ok && ce.Result != nil {
			rt.logger.Debug("challenge finished",
				logging.SessionField(sess.ID),
				logging.ChallengeField(string(ce.ChallengeID)),
				logging.StringField("outcome", ce.Result.Outcome()))
		}
	})

	// Saves outlive cancellation so the last move survives Ctrl-C.
	g.autosaver = persistence.NewAutosaver(context.WithoutCancel(ctx), rt.store, sess.State,
		persistence.WithAutosaveLogger(rt.logger))
	bus.Subscribe(g.autosaver.Handle)

	if rt.cfg.HistoryPath != "" {
		history := report.NewHistoryWriter(rt.cfg.HistoryPath, sess.ID, state.MapID)
		bus.Subscribe(history.Handle)
	}

	provider := statistic.NewLiveProvider(func() ([]challenge.Result, int) {
		s := sess.State()
		return s.Results, len(s.Challenges)
	})
	g.tracker = achievement.NewTracker(
		achievement.NewEvaluator(), defs, provider,
		achievement.OnUnlock(func(unlocked []achievement.Definition) {
			for _, d := range unlocked {
				fmt.Fprintf(rt.out, "** achievement unlocked: %s **\n", d.Name)
			}
		}),
		achievement.WithTrackerLogger(rt.logger),
	)
	if restored {
		g.tracker.Prime()
	}
	bus.Subscribe(g.tracker.Handle)

	return g, nil
}

// loop executes one command per input line until EOF, "quit" or
// cancellation. Rejected commands are reported and play goes on.
func (g *liveGame) loop(ctx context.Context, in io.Reader) error {
	out := g.rt.out
	state := g.session.State()
	if g.restored {
		fmt.Fprintf(out, "Resuming %s: %d of %d challenges finished.\n",
			state.MapID, len(state.Results), len(state.Challenges))
	} else {
		fmt.Fprintf(out, "Welcome to %s: %d challenges.\n",
			state.MapID, len(state.Challenges))
	}
	fmt.Fprint(out, describeCurrent(state))

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := readLines(readCtx, in)
	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = strings.TrimSpace(l)
		}
		if ctx.Err() != nil {
			return nil
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprint(out, helpText)
			continue
		case "status", "look":
			fmt.Fprint(out, describeCurrent(g.session.State()))
			continue
		}

		cmd, err := command.ParseLine(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		before := g.session.State().Position
		if err := g.session.Execute(cmd); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		state := g.session.State()
		if state.Position != before || state.Finished() {
			fmt.Fprint(out, describeCurrent(state))
		}
		if state.Finished() {
			fmt.Fprintln(out, "All challenges finished.")
			return nil
		}
	}
}

// readLines scans in on its own goroutine so the command loop can
// stop on cancellation while a read is still blocked. The scanner
// error is sent on the second channel before lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			errc <- err
			close(lines)
		}()
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()
	return lines, errc
}

// finishGame flushes the autosaver and prints the summary.
func finishGame(g *liveGame, loopErr error) error {
	rt := g.rt
	saveErr := g.autosaver.Close()
	if saveErr != nil {
		rt.logger.Error("final save failed", logging.ErrorField(saveErr))
	}

	state := g.session.State()
	provider := statistic.NewHistoryProvider(state.Results, len(state.Challenges))
	summary := report.BuildSummary(state, provider, g.tracker.Unlocked())
	fmt.Fprintf(rt.out, "\nSolved %d, failed %d, abandoned %d of %d challenges.\n",
		summary.Solved, summary.Failed, summary.Abandoned, summary.Total)

	if rt.cfg.ReportDir != "" {
		paths, err := report.SaveSummary(summary, rt.cfg.ReportDir,
			report.NewJSONRenderer(true), report.MarkdownRenderer{}, report.HTMLRenderer{})
		if err != nil {
			rt.logger.Error("saving summary failed", logging.ErrorField(err))
		}
		for _, p := range paths {
			rt.logger.Info("summary written", logging.StringField("path", p))
		}
	}
	for _, s := range rt.metrics.Snapshot() {
		rt.logger.Debug("metric", logging.StringField("key", s.Key), logging.IntField("value", s.Value))
	}

	if loopErr != nil {
		return loopErr
	}
	return saveErr
}

const helpText = `Commands:
  next | prev | select <n>     move between challenges
  start | abandon              start or give up the current challenge
  choose <id>...               answer a multiple choice challenge
  order <row>...               answer a sort table challenge
  answer <text>                answer a free-form challenge
  status                       show the current challenge
  quit                         save and leave
JSON commands such as {"type":"next_challenge"} are accepted too.
`
