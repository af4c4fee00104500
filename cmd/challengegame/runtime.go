package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"digital.vasic.challengegame/pkg/achievement"
	"digital.vasic.challengegame/pkg/config"
	"digital.vasic.challengegame/pkg/game"
	"digital.vasic.challengegame/pkg/logging"
	"digital.vasic.challengegame/pkg/metrics"
	"digital.vasic.challengegame/pkg/persistence"
	"digital.vasic.challengegame/pkg/registry"
)

// runtime holds the long-lived dependencies shared by commands.
type runtime struct {
	cfg     *config.Config
	out     io.Writer
	logger  logging.Logger
	store   persistence.GameStatePersistence
	metrics *metrics.Counters
	closers []func() error
}

func openRuntime(
	ctx context.Context,
	cfg *config.Config,
	out, errOut io.Writer,
) (*runtime, error) {
	rt := &runtime{cfg: cfg, out: out, metrics: metrics.NewCounters()}

	logger, err := newLogger(cfg, out, errOut)
	if err != nil {
		return nil, err
	}
	rt.logger = logging.NewRedactingLogger(logger)
	rt.closers = append(rt.closers, logger.Close)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.store = store
	if closeStore != nil {
		rt.closers = append(rt.closers, closeStore)
	}
	rt.logger.Debug("runtime ready",
		logging.StringField("store", cfg.StoreKind),
		logging.StringField("map", cfg.MapID))
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func newLogger(cfg *config.Config, out, errOut io.Writer) (logging.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	verbose := level == logging.LevelDebug

	var base logging.Logger
	if cfg.LogFormat == config.LogJSON {
		base, err = logging.NewJSONLogger(logging.LoggerConfig{
			Output: errOut, Level: level, Verbose: verbose,
		})
		if err != nil {
			return nil, err
		}
	} else {
		base = logging.NewConsoleLoggerTo(errOut, level, verbose)
	}

	if cfg.LogPath == "" {
		return base, nil
	}
	file, err := logging.NewJSONLogger(logging.LoggerConfig{
		OutputPath: cfg.LogPath, Level: level, Verbose: verbose,
	})
	if err != nil {
		return nil, err
	}
	return logging.NewMultiLogger(base, file), nil
}

func openStore(
	ctx context.Context,
	cfg *config.Config,
) (persistence.GameStatePersistence, func() error, error) {
	switch cfg.StoreKind {
	case config.StoreFile:
		s, err := persistence.NewFileStore(cfg.StorePath)
		return s, nil, err
	case config.StoreSQLite:
		s, err := persistence.OpenSQLite(ctx, cfg.StorePath, cfg.StoreSlot)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return persistence.NewMemoryStore(), nil, nil
	}
}

// loadState resumes the saved game when there is one, otherwise
// it builds a fresh path from the challenge bank.
func (rt *runtime) loadState(ctx context.Context) (*game.GameState, bool, error) {
	state, err := rt.store.LoadGameState(ctx)
	switch {
	case err == nil:
		rt.logger.Info("resuming saved game",
			logging.StringField("map", state.MapID),
			logging.IntField("results", len(state.Results)))
		return state, true, nil
	case !errors.Is(err, persistence.ErrStateNotFound):
		return nil, false, err
	}

	if rt.cfg.BankPath == "" {
		return nil, false, fmt.Errorf("%w: no saved game and no challenge bank (set --bank or GAME_BANK)", game.ErrGamePathNotFound)
	}
	reg := registry.NewRegistry()
	if err := registry.LoadDefinitions(reg, rt.cfg.BankPath); err != nil {
		return nil, false, err
	}
	state, err = reg.NewGameState(rt.cfg.MapID)
	if err != nil {
		return nil, false, err
	}
	rt.logger.Info("new game",
		logging.StringField("map", state.MapID),
		logging.IntField("challenges", len(state.Challenges)))
	return state, false, nil
}

func (rt *runtime) achievements() ([]achievement.Definition, error) {
	if rt.cfg.AchievementsPath == "" {
		return nil, nil
	}
	return achievement.LoadFile(rt.cfg.AchievementsPath)
}
