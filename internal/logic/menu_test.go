package logic

import (
	"math/rand"
	"testing"
	"time"
)

type menuRig struct {
	m   *Menu
	cfg Config
	enc *testEncoder
	now time.Time
}

func newMenuRig() *menuRig {
	return &menuRig{
		m:   NewMenu(200 * time.Millisecond),
		cfg: DefaultConfig(),
		enc: newTestEncoder(),
		now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// next runs the menu tick 200ms after the previous one.
func (r *menuRig) next(press bool) MenuResult {
	res := r.m.Step(r.now, press, &r.cfg, r.enc)
	r.now = r.now.Add(200 * time.Millisecond)
	return res
}

func TestMenuEnterConfiguresMain(t *testing.T) {
	r := newMenuRig()

	res := r.next(false)
	if r.enc.steps != CoarseSteps {
		t.Errorf("steps: got %d, want %d", r.enc.steps, CoarseSteps)
	}
	if r.enc.lo != 0 || r.enc.hi != len(MenuItems)-1 {
		t.Errorf("bounds: got [%d,%d], want [0,%d]", r.enc.lo, r.enc.hi, len(MenuItems)-1)
	}
	if res.View.Screen != ScreenMenu || res.View.Selected != 0 {
		t.Errorf("view: got %+v", res.View)
	}
}

func TestMenuCadenceLatchesPress(t *testing.T) {
	r := newMenuRig()
	r.next(false)

	r.enc.turn(1)
	// Between ticks nothing changes, but the press is remembered
	res := r.m.Step(r.now.Add(-100*time.Millisecond), true, &r.cfg, r.enc)
	if res.View.Selected != 0 {
		t.Errorf("expected cached view between ticks, got selected=%d", res.View.Selected)
	}
	if r.m.State() != MenuMain {
		t.Fatalf("state changed between ticks: %s", r.m.State())
	}

	r.next(false)
	if r.m.State() != MenuEditReflow {
		t.Errorf("state: got %s, want EDIT_REFLOW", r.m.State())
	}
}

func TestMenuEditPreheatTracksEncoderLive(t *testing.T) {
	r := newMenuRig()
	r.next(false)
	r.next(true) // item 0
	if r.m.State() != MenuEditPreheat {
		t.Fatalf("state: got %s", r.m.State())
	}

	res := r.next(false)
	if r.enc.steps != FineSteps {
		t.Errorf("steps: got %d, want %d", r.enc.steps, FineSteps)
	}
	if r.enc.lo != PreheatMin || r.enc.hi != r.cfg.ReflowTarget {
		t.Errorf("bounds: got [%d,%d]", r.enc.lo, r.enc.hi)
	}
	if res.View.Header != "PREHEAT" || res.View.Text != "100" {
		t.Errorf("view: got %+v", res.View)
	}

	r.enc.turn(25)
	res = r.next(false)
	if r.cfg.PreheatTarget != 125 {
		t.Errorf("PreheatTarget: got %d, want 125", r.cfg.PreheatTarget)
	}
	if res.View.Text != "125" {
		t.Errorf("overlay: got %q", res.View.Text)
	}

	// Mid-edit ticks must not reset the encoder
	resets := r.enc.resets
	r.next(false)
	if r.enc.resets != resets {
		t.Error("encoder was reset mid-edit")
	}

	r.next(true)
	if r.m.State() != MenuMain {
		t.Errorf("state after press: got %s, want MAIN", r.m.State())
	}
	r.next(false)
	if r.enc.pos != 0 {
		t.Errorf("cursor after EditPreheat: got %d, want 0", r.enc.pos)
	}
}

func TestMenuEditReflowBoundedByPreheat(t *testing.T) {
	r := newMenuRig()
	r.cfg = Config{PreheatTarget: 150, ReflowTarget: 220}
	r.next(false)
	r.enc.turn(1)
	r.next(true)
	r.next(false)

	if r.enc.lo != 150 || r.enc.hi != ReflowMax {
		t.Errorf("bounds: got [%d,%d], want [150,%d]", r.enc.lo, r.enc.hi, ReflowMax)
	}
	r.enc.turn(-200)
	r.next(false)
	if r.cfg.ReflowTarget != 150 {
		t.Errorf("ReflowTarget: got %d, want 150", r.cfg.ReflowTarget)
	}
	r.enc.turn(500)
	r.next(false)
	if r.cfg.ReflowTarget != ReflowMax {
		t.Errorf("ReflowTarget: got %d, want %d", r.cfg.ReflowTarget, ReflowMax)
	}

	r.next(true)
	r.next(false)
	if r.enc.pos != 1 {
		t.Errorf("cursor after EditReflow: got %d, want 1", r.enc.pos)
	}
}

func TestMenuConfirmSave(t *testing.T) {
	tests := []struct {
		name  string
		turns int
		want  bool
	}{
		{"default is no", 0, false},
		{"position 2 is no", 2, false},
		{"position 3 is yes", 3, true},
		{"clamped at 5 is yes", 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMenuRig()
			r.next(false)
			r.enc.turn(2)
			r.next(true)
			res := r.next(false)
			if res.View.Screen != ScreenPrompt || res.View.Yes {
				t.Fatalf("prompt view: got %+v", res.View)
			}

			r.enc.turn(tt.turns)
			res = r.next(false)
			if res.View.Yes != tt.want {
				t.Errorf("Yes: got %v, want %v", res.View.Yes, tt.want)
			}
			res = r.next(true)
			if res.Save != tt.want {
				t.Errorf("Save: got %v, want %v", res.Save, tt.want)
			}
			if r.m.State() != MenuMain {
				t.Errorf("state: got %s, want MAIN", r.m.State())
			}
		})
	}
}

func TestMenuExit(t *testing.T) {
	r := newMenuRig()
	r.next(false)
	r.enc.turn(3)
	res := r.next(true)
	if res.Exit {
		t.Fatal("exit reported before the Exit state ran")
	}
	res = r.next(false)
	if !res.Exit {
		t.Error("expected Exit")
	}
}

func TestMenuKeepsTargetsOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := newMenuRig()
	r.next(false)

	for i := 0; i < 2000; i++ {
		switch r.m.State() {
		case MenuMain:
			r.enc.ResetPosition(rng.Intn(2)) // only the edit items
			r.next(true)
		default:
			r.enc.turn(rng.Intn(301) - 150)
			r.next(rng.Intn(4) == 0)
		}

		c := r.cfg
		if !(PreheatMin <= c.PreheatTarget && c.PreheatTarget <= c.ReflowTarget && c.ReflowTarget <= ReflowMax) {
			t.Fatalf("iteration %d: targets out of order: %+v", i, c)
		}
	}
}
