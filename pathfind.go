package gamekit

import (
	"container/heap"
	"fmt"
	"slices"
)

// Grid is a tile grid indexed by column then row.
type Grid interface {
	// Dimensions returns the number of columns and rows.
	Dimensions() (w, h int)
	// At returns the tile index at (x, y).
	At(x, y int) int
}

// pathNode is one tile in the search.
type pathNode struct {
	x, y   int
	g, h   int
	seq    int // insertion order, breaks ties between equal scores
	parent *pathNode
	index  int // position in the open heap, -1 once popped
}

// openList orders nodes by g+h, then by insertion.
type openList []*pathNode

func (o openList) Len() int { return len(o) }

func (o openList) Less(i, j int) bool {
	fi, fj := o[i].g+o[i].h, o[j].g+o[j].h
	if fi != fj {
		return fi < fj
	}
	return o[i].seq < o[j].seq
}

func (o openList) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openList) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openList) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*o = old[:len(old)-1]
	return n
}

func manhattan(x1, y1, x2, y2 int) int {
	return abs(x2-x1) + abs(y2-y1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FindPath returns the tiles walked from from to to, moving along the four
// axes and never entering a tile whose index is in avoid. The path excludes
// from and ends with to. An empty path means there is no route, including
// when from or to is itself avoided. Coordinates outside the grid return an
// error wrapping ErrInvalidCoordinates.
//
// The search starts at to and expands toward from, scoring tiles by steps
// taken plus the Manhattan distance to from.
func FindPath(grid Grid, from, to Point, avoid ...int) ([]Point, error) {
	w, h := grid.Dimensions()
	inside := func(p Point) bool { return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h }
	if !inside(from) {
		return nil, fmt.Errorf("path from (%d,%d) in %dx%d grid: %w", from.X, from.Y, w, h, ErrInvalidCoordinates)
	}
	if !inside(to) {
		return nil, fmt.Errorf("path to (%d,%d) in %dx%d grid: %w", to.X, to.Y, w, h, ErrInvalidCoordinates)
	}
	avoided := func(x, y int) bool { return slices.Contains(avoid, grid.At(x, y)) }
	if avoided(from.X, from.Y) || avoided(to.X, to.Y) {
		return []Point{}, nil
	}

	closed := make([]bool, w*h)
	opened := make([]*pathNode, w*h)
	open := &openList{}
	seq := 0
	push := func(n *pathNode) {
		n.seq = seq
		seq++
		opened[n.y*w+n.x] = n
		heap.Push(open, n)
	}

	push(&pathNode{x: to.X, y: to.Y, h: manhattan(to.X, to.Y, from.X, from.Y)})

	neighbors := [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if cur.x == from.X && cur.y == from.Y {
			return tracePath(cur), nil
		}
		closed[cur.y*w+cur.x] = true

		for _, d := range neighbors {
			nx, ny := cur.x+d[0], cur.y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			i := ny*w + nx
			if closed[i] || avoided(nx, ny) {
				continue
			}
			g := cur.g + 1
			if n := opened[i]; n != nil && n.index >= 0 {
				if g < n.g {
					n.g = g
					n.parent = cur
					heap.Fix(open, n.index)
				}
				continue
			}
			push(&pathNode{x: nx, y: ny, g: g, h: manhattan(nx, ny, from.X, from.Y), parent: cur})
		}
	}
	return []Point{}, nil
}

// tracePath walks parent links from the source node to the target, dropping
// the source itself.
func tracePath(n *pathNode) []Point {
	path := make([]Point, 0, n.g)
	for p := n.parent; p != nil; p = p.parent {
		path = append(path, Point{X: p.x, Y: p.y})
	}
	return path
}
