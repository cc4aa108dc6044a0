// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

// Package proc runs external build tools, streaming their output into the
// structured log.
package proc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Run executes the given command in dir and waits for it to finish.
//
// Stdout and stderr are pumped line-by-line into the structured log while
// the command runs, stdout at debug and stderr at info level. The pumps are
// joined before Run returns. The command inherits the process environment
// extended by extraEnv. There is no timeout; cancel the context to stop a
// stuck tool.
func Run(
	ctx context.Context,
	dir string,
	extraEnv []string,
	name string,
	args ...string,
) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	if len(extraEnv) > 0 {
		cmd.Env = append(cmd.Environ(), extraEnv...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	pumps := errgroup.Group{}
	pumps.Go(func() error {
		return pumpLines(stdout, name, slog.LevelDebug)
	})
	pumps.Go(func() error {
		return pumpLines(stderr, name, slog.LevelInfo)
	})

	slog.Debug("Running command", slog.String("command", cmd.String()))

	err = cmd.Start()
	if err != nil {
		// A failed start closes the pipes, so the pumps terminate.
		_ = pumps.Wait()

		return fmt.Errorf("start %s: %w", name, err)
	}

	// The pumps terminate once the pipes hit EOF, which happens before Wait
	// returns. Join them first so no output line is lost.
	pumpsErr := pumps.Wait()

	err = cmd.Wait()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return pumpsErr
}

func pumpLines(reader io.Reader, name string, level slog.Level) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		slog.Log(context.Background(), level, scanner.Text(),
			slog.String("tool", name))
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("read %s output: %w", name, err)
	}

	return nil
}
