package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-cosmos/internal/core"
)

type stubEffect struct {
	id     string
	env    Env
	closed bool
}

func (s *stubEffect) ID() string               { return s.id }
func (s *stubEffect) Title() string            { return "Stub " + s.id }
func (s *stubEffect) Reset(core.RuntimeConfig) {}
func (s *stubEffect) Step(time.Duration)       {}
func (s *stubEffect) Handle(core.InputEvent)   {}
func (s *stubEffect) Do(core.Action)           {}
func (s *stubEffect) Resize(int, int)          {}
func (s *stubEffect) Render(*core.Screen)      {}
func (s *stubEffect) Stats() core.EffectStats  { return core.EffectStats{} }
func (s *stubEffect) Close()                   { s.closed = true }

func stubFactory(id string) Factory {
	return func(env Env) Effect {
		return &stubEffect{id: id, env: env}
	}
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub-b", "second", stubFactory("zz-stub-b"))
	Register("zz-stub-a", "first", stubFactory("zz-stub-a"))

	if !Exists("zz-stub-a") || Exists("zz-missing") {
		t.Error("Exists() mismatch")
	}

	var got []EffectInfo
	for _, e := range List() {
		if e.ID == "zz-stub-a" || e.ID == "zz-stub-b" {
			got = append(got, e)
		}
	}
	want := []EffectInfo{
		{ID: "zz-stub-a", Title: "Stub zz-stub-a", Description: "first"},
		{ID: "zz-stub-b", Title: "Stub zz-stub-b", Description: "second"},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("List() = %+v, want %+v", got, want)
	}

	e, err := Create("zz-stub-a", Env{Title: "hello"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if stub := e.(*stubEffect); stub.env.Title != "hello" || stub.closed {
		t.Errorf("created effect = %+v", stub)
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("zz-missing", Env{})
	if !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("Create() error = %v, want ErrUnknownEffect", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-stub-dup", "", stubFactory("zz-stub-dup"))
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("zz-stub-dup", "", stubFactory("zz-stub-dup"))
}
