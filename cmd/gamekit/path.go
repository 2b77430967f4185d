package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/gamekit"
)

type pathOptions struct {
	mapFile string
	layer   int
	from    string
	to      string
	avoid   []int
	json    bool
}

func newPathCmd() *cobra.Command {
	var opts pathOptions
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Find a tile path across a layer of a Tiled JSON map",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := findPath(opts)
			if err != nil {
				return err
			}
			return printPath(cmd, path, opts.json)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.mapFile, "map", "m", "", "Tiled JSON map file")
	f.IntVarP(&opts.layer, "layer", "l", 0, "tile layer index")
	f.StringVar(&opts.from, "from", "", "source tile as x,y")
	f.StringVar(&opts.to, "to", "", "target tile as x,y")
	f.IntSliceVar(&opts.avoid, "avoid", nil, "tile indexes to avoid")
	f.BoolVar(&opts.json, "json", false, "print the path as JSON")
	_ = cmd.MarkFlagRequired("map")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func findPath(opts pathOptions) ([]gamekit.Point, error) {
	from, err := parsePoint(opts.from)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	to, err := parsePoint(opts.to)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}
	data, err := os.ReadFile(opts.mapFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}
	doc, err := gamekit.ParseTiledMap(data)
	if err != nil {
		return nil, err
	}
	m := gamekit.NewTiledTileMap(doc)
	return m.Path(opts.layer, from, to, opts.avoid...)
}

// parsePoint parses "x,y".
func parsePoint(s string) (gamekit.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return gamekit.Point{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return gamekit.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return gamekit.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return gamekit.Point{X: x, Y: y}, nil
}

func printPath(cmd *cobra.Command, path []gamekit.Point, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		pts := make([][2]int, len(path))
		for i, p := range path {
			pts[i] = [2]int{p.X, p.Y}
		}
		enc := json.NewEncoder(out)
		return enc.Encode(pts)
	}
	if len(path) == 0 {
		fmt.Fprintln(out, "no path")
		return nil
	}
	for _, p := range path {
		fmt.Fprintf(out, "%d,%d\n", p.X, p.Y)
	}
	return nil
}
