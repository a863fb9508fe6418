package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playcap/internal/formatter"
	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/shared"
	"github.com/desertthunder/playcap/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Capture scrapes a playlist and prints or saves the numbered track list.
//
// Without an argument the playlist is read from a prompt on stdin. The default line format
// streams each track as soon as it is matched; other formats are rendered once the run completes.
func (r *Runner) Capture(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("playlist")
	if strings.TrimSpace(input) == "" {
		line, err := r.prompt("Enter playlist URL or show ID: ")
		if err != nil {
			return err
		}
		input = line
	}

	url, err := tasks.ResolvePlaylistURL(input, r.config.Fetch.ShowHost)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "run", shared.GenerateID())
	engine, err := r.engineFor(cmd.Bool("no-match"), logger)
	if err != nil {
		return err
	}

	outPath := cmd.String("output")
	if format == formatter.Lines && outPath == "" {
		return r.streamLines(ctx, engine, url)
	}

	result := r.runWithProgress(ctx, engine, url, logger)

	if outPath != "" {
		if err := formatter.WriteExport(result, format, outPath); err != nil {
			return err
		}
		if result.Error == "" {
			r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("✓ Saved %d tracks to %s", len(result.Items), outPath)))
		}
	} else {
		data, err := formatter.Export(result, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if result.Error != "" {
		return fmt.Errorf("capture failed: %s", result.Error)
	}
	return nil
}

// streamLines prints the header and each track line as the engine delivers them.
func (r *Runner) streamLines(ctx context.Context, engine tasks.Engine, url string) error {
	var writeErr error
	err := engine.Stream(ctx, url, func(entry models.TrackEntry, total int) {
		if writeErr != nil {
			return
		}
		if entry.Index == 1 {
			writeErr = r.writePlain("%s\n", r.palette.Title(formatter.Header(total)))
		}
		if writeErr == nil {
			writeErr = r.writePlain("%s\n", r.palette.Entry(entry))
		}
	})
	if err != nil {
		return err
	}
	return writeErr
}

// runWithProgress runs the engine and logs its progress updates at debug level.
func (r *Runner) runWithProgress(ctx context.Context, engine tasks.Engine, url string, logger *log.Logger) *models.PipelineResult {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for u := range progress {
			logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result := engine.Run(ctx, url, progress)
	close(progress)
	<-done
	return result
}

func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%w: playlist URL or show ID", shared.ErrMissingArgument)
	}
	return line, nil
}
