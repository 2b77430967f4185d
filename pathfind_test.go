package gamekit

import (
	"errors"
	"testing"
)

// gridFromRows builds a grid from rows of tile indexes, as they read on
// screen.
func gridFromRows(rows ...[]int) *TileGrid {
	g := NewTileGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			g.cells[x][y] = v
		}
	}
	return g
}

func adjacent(a, b Point) bool {
	return manhattan(a.X, a.Y, b.X, b.Y) == 1
}

func checkPath(t *testing.T, from, to Point, path []Point, grid Grid, avoid int) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("path is empty")
	}
	if !adjacent(from, path[0]) {
		t.Errorf("first step %v not adjacent to %v", path[0], from)
	}
	if path[len(path)-1] != to {
		t.Errorf("last step %v, want %v", path[len(path)-1], to)
	}
	for i := 1; i < len(path); i++ {
		if !adjacent(path[i-1], path[i]) {
			t.Errorf("step %d %v not adjacent to %v", i, path[i], path[i-1])
		}
		if grid.At(path[i].X, path[i].Y) == avoid {
			t.Errorf("step %d %v enters an avoided tile", i, path[i])
		}
	}
}

// --- FindPath ---

func TestFindPathTrivial(t *testing.T) {
	g := gridFromRows(
		[]int{0, 0, 0},
		[]int{0, 0, 0},
		[]int{0, 0, 0},
	)
	path, err := FindPath(g, Point{0, 0}, Point{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 4 {
		t.Fatalf("len = %d, want 4: %v", len(path), path)
	}
	checkPath(t, Point{0, 0}, Point{2, 2}, path, g, -99)
}

func TestFindPathAroundWall(t *testing.T) {
	g := gridFromRows(
		[]int{0, 0, 0, 0, 0},
		[]int{0, 1, 1, 1, 0},
		[]int{0, 0, 0, 1, 0},
		[]int{1, 1, 0, 1, 0},
		[]int{0, 0, 0, 1, 0},
	)
	from, to := Point{0, 4}, Point{4, 4}
	path, err := FindPath(g, from, to, 1)
	if err != nil {
		t.Fatal(err)
	}
	checkPath(t, from, to, path, g, 1)
	// The only route climbs the middle, then the left edge, then runs down
	// the right edge.
	if len(path) != 16 {
		t.Errorf("len = %d, want 16: %v", len(path), path)
	}
}

func TestFindPathNoRoute(t *testing.T) {
	g := gridFromRows(
		[]int{0, 1, 0},
		[]int{0, 1, 0},
		[]int{0, 1, 0},
	)
	path, err := FindPath(g, Point{0, 0}, Point{2, 2}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if path == nil || len(path) != 0 {
		t.Errorf("path = %#v, want empty non-nil", path)
	}
}

func TestFindPathAvoidedEndpoints(t *testing.T) {
	g := gridFromRows(
		[]int{2, 0, 0},
		[]int{0, 0, 3},
	)
	tests := []struct {
		name     string
		from, to Point
		avoid    []int
	}{
		{"source avoided", Point{0, 0}, Point{2, 0}, []int{2}},
		{"target avoided", Point{0, 1}, Point{2, 1}, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := FindPath(g, tt.from, tt.to, tt.avoid...)
			if err != nil {
				t.Fatal(err)
			}
			if len(path) != 0 {
				t.Errorf("path = %v, want empty", path)
			}
		})
	}
}

func TestFindPathSameTile(t *testing.T) {
	g := NewTileGrid(2, 2)
	path, err := FindPath(g, Point{1, 1}, Point{1, 1})
	if err != nil || len(path) != 0 {
		t.Errorf("path = %v err = %v, want empty", path, err)
	}
}

func TestFindPathInvalidCoordinates(t *testing.T) {
	g := NewTileGrid(3, 3)
	for _, pts := range [][2]Point{
		{{-1, 0}, {1, 1}},
		{{0, 0}, {3, 0}},
		{{0, 5}, {0, 0}},
	} {
		_, err := FindPath(g, pts[0], pts[1])
		if !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("FindPath(%v, %v) err = %v, want ErrInvalidCoordinates", pts[0], pts[1], err)
		}
	}
}

func TestFindPathDeterministic(t *testing.T) {
	g := NewTileGrid(6, 6)
	first, _ := FindPath(g, Point{0, 0}, Point{5, 5})
	for range 5 {
		again, _ := FindPath(g, Point{0, 0}, Point{5, 5})
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("path changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func BenchmarkFindPath64(b *testing.B) {
	g := NewTileGrid(64, 64)
	for y := 1; y < 63; y += 4 {
		for x := 0; x < 60; x++ {
			g.cells[x][y] = 1
		}
	}
	for b.Loop() {
		_, _ = FindPath(g, Point{0, 0}, Point{63, 63}, 1)
	}
}
