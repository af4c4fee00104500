package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"digital.vasic.challengegame/pkg/achievement"
	"digital.vasic.challengegame/pkg/bank"
	"digital.vasic.challengegame/pkg/registry"
)

var errInvalidBank = errors.New("validation failed")

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check challenge bank files and the path they build",
		ArgsUsage: "[bank file or directory...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			paths := cmd.Args().Slice()
			if len(paths) == 0 && cfg.BankPath != "" {
				paths = []string{cfg.BankPath}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no bank given (pass a path or set --bank)")
			}
			return runValidate(cmd.Root().Writer, paths, cfg.AchievementsPath)
		},
	}
}

func runValidate(out io.Writer, paths []string, achievementsPath string) error {
	failed := false
	reg := registry.NewRegistry()

	for _, root := range paths {
		files, err := bankFiles(root)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", root, err)
			failed = true
			continue
		}
		for _, f := range files {
			problems := bank.ValidateFile(f)
			for _, p := range problems {
				fmt.Fprintf(out, "%s: %v\n", f, p)
			}
			if len(problems) > 0 {
				failed = true
				continue
			}
			if err := registry.LoadDefinitions(reg, f); err != nil {
				fmt.Fprintf(out, "%s: %v\n", f, err)
				failed = true
				continue
			}
			fmt.Fprintf(out, "%s: ok\n", f)
		}
	}

	if path, err := reg.BuildPath(); err != nil {
		fmt.Fprintf(out, "path: %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(out, "path: %d challenges\n", len(path))
	}

	if achievementsPath != "" {
		defs, err := achievement.LoadFile(achievementsPath)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", achievementsPath, err)
			failed = true
		} else {
			fmt.Fprintf(out, "%s: %d achievements ok\n", achievementsPath, len(defs))
		}
	}

	if failed {
		return errInvalidBank
	}
	return nil
}

// bankFiles expands a directory into its bank files.
func bankFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && bank.Supported(e.Name()) {
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	return files, nil
}
