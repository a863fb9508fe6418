package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/playcap/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s\n", r.palette.OK("✓ Wrote "+path))
}

// ConfigShow prints the effective configuration as TOML, or JSON with --json.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	cfg.Catalog.Spotify.ClientID = mask(cfg.Catalog.Spotify.ClientID)
	cfg.Catalog.Spotify.ClientSecret = mask(cfg.Catalog.Spotify.ClientSecret)

	if cmd.Bool("json") {
		return r.writeJSON(cfg, true)
	}

	if err := toml.NewEncoder(r.output).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func mask(secret string) string {
	if len(secret) <= 4 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return secret[:4] + "****"
}
