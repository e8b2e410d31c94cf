package internal

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
)

// MaxCoordinate bounds every block axis so half-unit keys stay small integers.
const MaxCoordinate = 10000.0

type Shape string

const (
	ShapeCube     Shape = "cube"
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Vec3 is a client-reported transform component. It is relayed, never checked
// for plausibility, but it must be exactly three numbers.
type Vec3 [3]float64

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if len(values) != 3 {
		return fmt.Errorf("expected 3 components, got %d", len(values))
	}
	copy(v[:], values)
	return nil
}

type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Block struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color string  `json:"color"`
	Shape Shape   `json:"shape"`
	Size  float64 `json:"size"`
}

func (b Block) Coord() Coord {
	return Coord{X: b.X, Y: b.Y, Z: b.Z}
}

// blockKey stores each axis in half units, so 1.5 becomes 3.
type blockKey struct {
	x, y, z int
}

func halfUnits(v float64) int {
	return int(math.Round(v * 2))
}

func keyOf(c Coord) blockKey {
	return blockKey{x: halfUnits(c.X), y: halfUnits(c.Y), z: halfUnits(c.Z)}
}

func validAxis(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxCoordinate {
		return false
	}
	return v*2 == math.Trunc(v*2)
}

// Validate checks that every axis is a finite multiple of 0.5 within bounds.
func (c Coord) Validate() error {
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if !validAxis(v) {
			return fmt.Errorf("coordinate %v is not a multiple of 0.5 within ±%v", v, MaxCoordinate)
		}
	}
	return nil
}

// Normalize fills defaults (cube, size 1), lower-cases the color and
// validates the block.
func (b Block) Normalize() (Block, error) {
	if err := b.Coord().Validate(); err != nil {
		return Block{}, err
	}
	if !hexColor.MatchString(b.Color) {
		return Block{}, errors.New("color must be #rrggbb")
	}
	b.Color = strings.ToLower(b.Color)

	switch b.Shape {
	case "":
		b.Shape = ShapeCube
	case ShapeCube, ShapeSphere, ShapeCylinder:
	default:
		return Block{}, fmt.Errorf("unknown shape %q", b.Shape)
	}

	switch b.Size {
	case 0:
		b.Size = 1
	case 0.5, 1:
	default:
		return Block{}, fmt.Errorf("size must be 0.5 or 1, got %v", b.Size)
	}
	return b, nil
}

// World is the voxel store of one room. A limit of zero means unbounded.
type World struct {
	blocks map[blockKey]Block
	limit  int
}

func NewWorld(limit int) *World {
	return &World{
		blocks: make(map[blockKey]Block),
		limit:  limit,
	}
}

func (w *World) Len() int {
	return len(w.blocks)
}

func (w *World) Get(c Coord) (Block, bool) {
	b, ok := w.blocks[keyOf(c)]
	return b, ok
}

// Place stores b, replacing any block at the same coordinate. It returns false
// only when b would occupy a new coordinate of a world already at its limit.
func (w *World) Place(b Block) bool {
	key := keyOf(b.Coord())
	if _, occupied := w.blocks[key]; !occupied && w.limit > 0 && len(w.blocks) >= w.limit {
		return false
	}
	w.blocks[key] = b
	return true
}

// Update replaces an existing block; absent coordinates are left untouched.
func (w *World) Update(b Block) bool {
	key := keyOf(b.Coord())
	if _, ok := w.blocks[key]; !ok {
		return false
	}
	w.blocks[key] = b
	return true
}

func (w *World) Remove(c Coord) (Block, bool) {
	key := keyOf(c)
	b, ok := w.blocks[key]
	if !ok {
		return Block{}, false
	}
	delete(w.blocks, key)
	return b, true
}

// Blocks returns every block ordered by x, then y, then z.
func (w *World) Blocks() []Block {
	out := make([]Block, 0, len(w.blocks))
	for _, b := range w.blocks {
		out = append(out, b)
	}
	slices.SortFunc(out, compareBlocks)
	return out
}

// Within lists the coordinates of blocks at Euclidean distance <= radius from
// origin, skipping the floor layer at floorY. Ordered like Blocks.
func (w *World) Within(origin Vec3, radius, floorY float64) []Coord {
	floor := halfUnits(floorY)
	hits := make([]Block, 0)
	for key, b := range w.blocks {
		if key.y == floor {
			continue
		}
		dx, dy, dz := b.X-origin[0], b.Y-origin[1], b.Z-origin[2]
		if math.Sqrt(dx*dx+dy*dy+dz*dz) <= radius {
			hits = append(hits, b)
		}
	}
	slices.SortFunc(hits, compareBlocks)

	coords := make([]Coord, 0, len(hits))
	for _, b := range hits {
		coords = append(coords, b.Coord())
	}
	return coords
}

func compareBlocks(a, b Block) int {
	return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y), cmp.Compare(a.Z, b.Z))
}
