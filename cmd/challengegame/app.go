package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"digital.vasic.challengegame/pkg/config"
)

const version = "1.0.0"

func newApp(in io.Reader, out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "challengegame",
		Usage:     "play educational challenge maps",
		Version:   version,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file read before the environment"},
			&cli.StringFlag{Name: "bank", Aliases: []string{"b"}, Usage: "challenge bank file or directory"},
			&cli.StringFlag{Name: "achievements", Aliases: []string{"a"}, Usage: "achievement definition file"},
			&cli.StringFlag{Name: "map", Usage: "map identifier recorded in the game state"},
			&cli.StringFlag{Name: "store", Usage: "persistence backend: memory, file or sqlite"},
			&cli.StringFlag{Name: "store-path", Usage: "save file or database path"},
			&cli.StringFlag{Name: "slot", Usage: "save slot for the sqlite store"},
			&cli.StringFlag{Name: "history", Usage: "JSON lines file receiving finished results"},
			&cli.StringFlag{Name: "report-dir", Usage: "directory receiving game summaries"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json"},
			&cli.StringFlag{Name: "log-path", Usage: "also write JSON logs to this file"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug output"},
		},
		Commands: []*cli.Command{
			playCommand(),
			statsCommand(),
			validateCommand(),
			serveCommand(),
		},
	}
}

// loadConfig reads the environment, then applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("env-file"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"bank", &cfg.BankPath},
		{"achievements", &cfg.AchievementsPath},
		{"map", &cfg.MapID},
		{"store", &cfg.StoreKind},
		{"store-path", &cfg.StorePath},
		{"slot", &cfg.StoreSlot},
		{"history", &cfg.HistoryPath},
		{"report-dir", &cfg.ReportDir},
		{"log-level", &cfg.LogLevel},
		{"log-format", &cfg.LogFormat},
		{"log-path", &cfg.LogPath},
	}
	for _, o := range overrides {
		if cmd.IsSet(o.flag) {
			*o.target = cmd.String(o.flag)
		}
	}
	if cmd.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return cfg, nil
}

// withRuntime loads configuration and opens the runtime around fn.
func withRuntime(
	ctx context.Context,
	cmd *cli.Command,
	fn func(*runtime) error,
) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := openRuntime(ctx, cfg, cmd.Root().Writer, cmd.Root().ErrWriter)
	if err != nil {
		return err
	}
	err = fn(rt)
	if cerr := rt.Close(); err == nil {
		err = cerr
	}
	return err
}
