// Package game defines the board primitives shared by the rules engine and
// every controller: points, directions and the snake body chain.
//
// Coordinates follow terminal conventions: (0,0) is the top-left cell, x grows
// to the right and y grows downward.
package game

import "fmt"

// Coord is a board coordinate. Boards are at most 1000 cells on a side.
type Coord = uint16

// Point is a board cell. It is a value type and is used directly as a map key.
type Point struct {
	X Coord
	Y Coord
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y Coord) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns p moved one cell in d. Unsigned coordinates wrap, so stepping
// Left from x=0 yields a cell far outside any valid board.
func (p Point) Step(d Direction) Point {
	switch d {
	case Right:
		p.X++
	case Left:
		p.X--
	case Down:
		p.Y++
	case Up:
		p.Y--
	}
	return p
}

// Manhattan returns the taxicab distance between p and q.
func (p Point) Manhattan(q Point) int {
	dx := int(p.X) - int(q.X)
	if dx < 0 {
		dx = -dx
	}
	dy := int(p.Y) - int(q.Y)
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Direction is one of the four axis-aligned moves.
type Direction uint8

const (
	Right Direction = iota
	Left
	Down
	Up
)

// Directions lists every direction in declaration order.
var Directions = [4]Direction{Right, Left, Down, Up}

var directionNames = [4]string{"right", "left", "down", "up"}

// Reverse maps Right<->Left and Down<->Up.
func (d Direction) Reverse() Direction {
	switch d {
	case Right:
		return Left
	case Left:
		return Right
	case Down:
		return Up
	default:
		return Down
	}
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts the names produced by String.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if s == name {
			return Direction(i), true
		}
	}
	return 0, false
}
