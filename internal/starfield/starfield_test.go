package starfield

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tui-cosmos/internal/stage"
	"github.com/vovakirdan/tui-cosmos/internal/tween"
)

func TestGenerate(t *testing.T) {
	st := stage.New(800, 600)
	container := st.AddContainer("sky", 0)
	tw := tween.NewEngine(st)

	stars, err := Generate(st, container, tw, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(stars) != Count {
		t.Fatalf("len = %d, want %d", len(stars), Count)
	}
	if n := len(st.Children(container)); n != Count {
		t.Errorf("container children = %d, want %d", n, Count)
	}
	if tw.Len() != Count {
		t.Errorf("tweens = %d, want %d", tw.Len(), Count)
	}

	for i, s := range stars {
		switch {
		case s.Size < 0.3 || s.Size >= 1.5:
			t.Errorf("star %d size %v", i, s.Size)
		case s.Pos.X < 0 || s.Pos.X >= 100 || s.Pos.Y < 0 || s.Pos.Y >= 100:
			t.Errorf("star %d pos %v", i, s.Pos)
		case s.Opacity < 0.1 || s.Opacity >= 0.5:
			t.Errorf("star %d opacity %v", i, s.Opacity)
		case s.Twinkle < 0.2 || s.Twinkle >= 0.8:
			t.Errorf("star %d twinkle %v", i, s.Twinkle)
		case s.Period < 2*time.Second || s.Period >= 6*time.Second:
			t.Errorf("star %d period %v", i, s.Period)
		}
		el, ok := st.Lookup(s.Element)
		if !ok || el.Kind != stage.KindStar || !el.Relative {
			t.Fatalf("star %d element = %+v", i, el)
		}
	}
}

func TestTwinkleStaysInBand(t *testing.T) {
	st := stage.New(800, 600)
	container := st.AddContainer("sky", 0)
	tw := tween.NewEngine(st)
	stars, _ := Generate(st, container, tw, rand.New(rand.NewSource(5)))

	for i := 0; i < 1500; i++ {
		tw.Advance(10 * time.Millisecond)
		for _, s := range stars {
			el, _ := st.Lookup(s.Element)
			o := el.Props.Get(stage.PropOpacity)
			lo, hi := s.Opacity, s.Twinkle
			if lo > hi {
				lo, hi = hi, lo
			}
			if o < lo-1e-9 || o > hi+1e-9 {
				t.Fatalf("opacity %v outside [%v, %v]", o, lo, hi)
			}
		}
	}
	if tw.Len() != Count {
		t.Errorf("twinkles ended: %d left", tw.Len())
	}
}

func TestGenerateMissingContainer(t *testing.T) {
	st := stage.New(800, 600)
	tw := tween.NewEngine(st)
	_, err := Generate(st, 999, tw, rand.New(rand.NewSource(1)))
	if !errors.Is(err, stage.ErrNoParent) {
		t.Errorf("error = %v, want ErrNoParent", err)
	}
}
