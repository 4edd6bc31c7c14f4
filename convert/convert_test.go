package convert

import (
	"testing"

	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

func testFrame() *rules.Frame {
	return &rules.Frame{
		Width:  20,
		Height: 20,
		Snakes: []rules.FrameSnake{
			{ID: 0, Body: []game.Point{game.Pt(5, 5), game.Pt(4, 5), game.Pt(3, 5)}},
			{ID: 1, Body: []game.Point{game.Pt(7, 5)}},
		},
		Food: []game.Point{game.Pt(5, 7), game.Pt(18, 18)},
	}
}

func TestFrameToFloat32_Planes(t *testing.T) {
	ptr := FrameToFloat32(testFrame(), 0)
	defer PutFloatBuffer(ptr)
	data := *ptr

	cases := []struct {
		name string
		c    int
		x, y int
		want float32
	}{
		{"own head at centre", OwnPlane, Radius, Radius, 1},
		{"own neck", OwnPlane, Radius - 1, Radius, 2.0 / 3.0},
		{"own tail", OwnPlane, Radius - 2, Radius, 1.0 / 3.0},
		{"other head", OthersPlane, Radius + 2, Radius, 1},
		{"food", FoodPlane, Radius, Radius + 2, 1},
		{"left border column", BorderPlane, 0, 3, 1},
		{"top border row", BorderPlane, 3, 0, 1},
		{"interior", BorderPlane, Radius, Radius, 0},
		{"own head not in others", OthersPlane, Radius, Radius, 0},
	}
	for _, tc := range cases {
		if got := data[Index(tc.c, tc.x, tc.y)]; got != tc.want {
			t.Fatalf("%s: plane %d (%d,%d)=%v want %v", tc.name, tc.c, tc.x, tc.y, got, tc.want)
		}
	}

	var food float32
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			food += data[Index(FoodPlane, x, y)]
		}
	}
	if food != 1 {
		t.Fatalf("food in window=%v want 1 (far food clipped)", food)
	}
}

func TestFrameToFloat32_OutsideWorldIsBorder(t *testing.T) {
	f := &rules.Frame{
		Width:  20,
		Height: 20,
		Snakes: []rules.FrameSnake{{ID: 3, Body: []game.Point{game.Pt(1, 1)}}},
	}
	ptr := FrameToFloat32(f, 3)
	defer PutFloatBuffer(ptr)
	data := *ptr

	for _, c := range [][2]int{{0, 0}, {Radius - 1, Radius}, {Radius, Radius - 1}} {
		if data[Index(BorderPlane, c[0], c[1])] != 1 {
			t.Fatalf("window cell %v not border", c)
		}
	}
	if data[Index(BorderPlane, Radius, Radius)] != 0 {
		t.Fatalf("head cell marked border")
	}
}

func TestFrameToFloat32_MissingAgentIsEmpty(t *testing.T) {
	ptr := FrameToFloat32(testFrame(), 9)
	defer PutFloatBuffer(ptr)
	for i, v := range *ptr {
		if v != 0 {
			t.Fatalf("data[%d]=%v want 0", i, v)
		}
	}
}

func TestViewToFloat32_MatchesFrame(t *testing.T) {
	w, err := rules.New(rules.Config{Width: 20, Height: 20, Food: 3, TailSize: 2, Controllers: []rules.Controller{nil}})
	if err != nil {
		t.Fatalf("rules.New: %v", err)
	}
	v := w.Tick(true)
	a := ViewToFloat32(v, 0)
	defer PutFloatBuffer(a)
	f := v.Frame()
	b := FrameToFloat32(&f, 0)
	defer PutFloatBuffer(b)
	for i := range *a {
		if (*a)[i] != (*b)[i] {
			t.Fatalf("data[%d] view=%v frame=%v", i, (*a)[i], (*b)[i])
		}
	}
}
