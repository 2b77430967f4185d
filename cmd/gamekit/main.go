// Command gamekit runs gamekit scenes described by a YAML config and answers
// pathfinding queries against Tiled maps.
//
// Usage:
//
//	gamekit run --config game.yaml
//	gamekit path --map level.json --from 0,0 --to 9,4 --avoid 3,7
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
