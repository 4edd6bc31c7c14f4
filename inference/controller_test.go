package inference

import (
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/brensch/snakeworld/convert"
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

type fakePredictor struct {
	policy []float32
	err    error
	calls  int
	inputs int
}

func (f *fakePredictor) Predict(input []float32) ([]float32, error) {
	f.calls++
	f.inputs = len(input)
	return f.policy, f.err
}

func world(t *testing.T, tail int, c rules.Controller) *rules.World {
	t.Helper()
	w, err := rules.New(rules.Config{
		Width: 20, Height: 20, Food: 2, TailSize: tail,
		Controllers: []rules.Controller{c},
		Rand:        rand.New(rand.NewSource(9)),
	})
	if err != nil {
		t.Fatalf("rules.New: %v", err)
	}
	return w
}

func TestController_TakesBestSafeDirection(t *testing.T) {
	// Down scores highest.
	model := &fakePredictor{policy: []float32{0.1, 0.2, 0.6, 0.1}}
	w := world(t, 2, NewController(model, nil))

	v := w.Tick(true)
	info, ok := v.Snake(0)
	if !ok {
		t.Fatalf("snake died")
	}
	if d, _ := info.Direction(); d != game.Down {
		t.Fatalf("dir=%s want down", d)
	}
	if model.calls != 1 || model.inputs != InputSize {
		t.Fatalf("calls=%d inputs=%d", model.calls, model.inputs)
	}
}

func TestController_SkipsUnsafeTopScore(t *testing.T) {
	// Left is the top score but is a reversal into the neck once the snake
	// has moved Right.
	model := &fakePredictor{policy: []float32{0.5, 0.9, 0.1, 0.2}}
	w := world(t, 2, NewController(model, nil))

	w.Tick(true)
	v := w.Tick(false)
	info, ok := v.Snake(0)
	if !ok {
		t.Fatalf("snake died")
	}
	if d, _ := info.Direction(); d != game.Right {
		t.Fatalf("dir=%s want right", d)
	}
}

func TestController_FallsBackOnError(t *testing.T) {
	model := &fakePredictor{err: errors.New("boom")}
	w := world(t, 0, NewController(model, nil))
	v := w.Tick(true)
	if _, ok := v.Snake(0); !ok {
		t.Fatalf("snake died on fallback")
	}
	if model.calls != 1 {
		t.Fatalf("calls=%d want 1", model.calls)
	}
}

func TestBest_NothingSafeKeepsDirection(t *testing.T) {
	w := world(t, 2, nil)
	v := w.Tick(true)
	info, _ := v.Snake(0)

	none := func(game.Direction) bool { return false }
	if d := Best([]float32{1, 1, 1, 1}, none, info); d != game.Right {
		t.Fatalf("dir=%s want right", d)
	}

	all := func(game.Direction) bool { return true }
	if d := Best([]float32{0.3, 0.3, 0.2, 0.1}, all, info); d != game.Right {
		t.Fatalf("tie went to %s, want right", d)
	}
	if d := Best([]float32{0.1, 0.2, 0.3, 0.4}, all, info); d != game.Up {
		t.Fatalf("dir=%s want up", d)
	}
}

func TestOnnxClient_Predict(t *testing.T) {
	model := os.Getenv("SNAKE_POLICY_MODEL")
	if model == "" || SharedLibraryPath() == "" {
		t.Skip("set SNAKE_POLICY_MODEL and ORT_SHARED_LIBRARY_PATH to run")
	}
	c, err := NewOnnxClient(model)
	if err != nil {
		t.Fatalf("NewOnnxClient: %v", err)
	}
	defer c.Close()

	input := make([]float32, convert.FloatSize)
	policy, err := c.Predict(input)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(policy) != PolicySize {
		t.Fatalf("policy len=%d want %d", len(policy), PolicySize)
	}
	if st := c.Stats(); st.TotalItems != 1 {
		t.Fatalf("stats=%+v", st)
	}
}
