package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/gamekit"
)

func newRunCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and show the scene described by a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadGameConfig(configPath)
			if err != nil {
				return err
			}
			rc, err := cfg.runConfig()
			if err != nil {
				return err
			}
			rc.Logger = slog.Default()
			return gamekit.Run(rc, func(c *gamekit.Core) error {
				setupScene(c, cfg)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "game.yaml", "game config file")
	return cmd
}

// setupScene starts loading the configured assets and attaches the tile map
// once they arrive.
func setupScene(c *gamekit.Core, cfg *gameConfig) *gamekit.Promise {
	loader := gamekit.NewLoader(c, os.DirFS(cfg.resolve(".")), cfg.Assets.Folder)
	log := c.Logger()

	steps := []gamekit.Step{}
	if cfg.Assets.Manifest != "" {
		steps = append(steps, func() *gamekit.Promise { return loader.FetchManifest(cfg.Assets.Manifest) })
	}
	if len(cfg.Assets.Fetch) > 0 {
		steps = append(steps, func() *gamekit.Promise { return loader.Fetch(cfg.Assets.Fetch...) })
	}
	if cfg.TileMap != "" {
		steps = append(steps, func() *gamekit.Promise {
			return loader.FetchTileMap(cfg.TileMap).Then(func(values ...any) any {
				m := values[0].(*gamekit.TileMap)
				c.Attach(m)
				if layers := m.Layers(); len(layers) > 0 {
					w, h := layers[0].Size()
					c.Camera().SetBounds(gamekit.Rect{W: w, H: h})
				}
				return nil
			}, nil)
		})
	}
	done := gamekit.Chain(steps...)()
	done.Then(func(...any) any {
		log.Info("scene ready", "assets", len(loader.Keys()))
		return nil
	}, func(values ...any) any {
		log.Error("scene setup failed", "err", values)
		return nil
	})
	return done
}
