package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"digital.vasic.challengegame/pkg/logging"
	"digital.vasic.challengegame/pkg/monitor"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "play while streaming events to WebSocket dashboards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "monitor listen address"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				if cmd.IsSet("addr") {
					rt.cfg.MonitorAddr = cmd.String("addr")
				}
				return runServe(ctx, rt, cmd)
			})
		},
	}
}

func runServe(ctx context.Context, rt *runtime, cmd *cli.Command) error {
	g, err := startGame(ctx, rt)
	if err != nil {
		return err
	}

	bus := g.session.Controller().Bus()
	dashboard := monitor.NewDashboardData(g.session.ID, g.session.State())
	broadcaster := monitor.NewBroadcaster(dashboard, rt.logger)
	bus.Subscribe(broadcaster.Handle)
	collector := monitor.NewEventCollector()
	bus.Subscribe(collector.Handle)
	srv := monitor.NewServer(rt.cfg.MonitorAddr, dashboard, broadcaster, rt.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return srv.Serve(gctx)
	})

	var loopErr error
	eg.Go(func() error {
		defer cancel()
		loopErr = g.loop(gctx, cmd.Root().Reader)
		return nil
	})

	serveErr := eg.Wait()
	stats := collector.Stats()
	rt.logger.Info("monitor stopped",
		logging.IntField("events", stats.Total),
		logging.IntField("solved", stats.Solved))

	if err := finishGame(g, loopErr); err != nil {
		return err
	}
	return serveErr
}
