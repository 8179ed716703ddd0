package logic

import (
	"strconv"
	"time"
)

// MenuState is a CONFIG sub-state.
type MenuState int

const (
	MenuMain MenuState = iota
	MenuEditPreheat
	MenuEditReflow
	MenuConfirmSave
	MenuExit
)

// menuNone marks "no previous state" so the first tick runs an enter hook.
const menuNone MenuState = -1

// savePositions is the encoder range of the save prompt; positions above
// the midpoint select "Yes".
const savePositions = 6

func (s MenuState) String() string {
	switch s {
	case MenuMain:
		return "MAIN"
	case MenuEditPreheat:
		return "EDIT_PREHEAT"
	case MenuEditReflow:
		return "EDIT_REFLOW"
	case MenuConfirmSave:
		return "CONFIRM_SAVE"
	case MenuExit:
		return "EXIT"
	default:
		return "NONE"
	}
}

// MenuResult is the outcome of a menu tick.
type MenuResult struct {
	View View
	// Save is set when "Yes" was confirmed on the save prompt.
	Save bool
	// Exit is set once the Exit item has been reached.
	Exit bool
}

// Menu is the CONFIG state machine. It runs on its own cadence; presses
// between menu ticks are latched until the next tick.
//
// Each sub-state configures the encoder only on the tick it is entered,
// detected by comparing state with prev.
type Menu struct {
	interval time.Duration

	state    MenuState
	prev     MenuState
	lastTick time.Time
	ticked   bool
	pending  bool
	view     View
}

// NewMenu creates a Menu polled every interval.
func NewMenu(interval time.Duration) *Menu {
	m := &Menu{interval: interval}
	m.Enter()
	return m
}

// Enter resets the menu to Main. The first Step after Enter runs immediately.
func (m *Menu) Enter() {
	m.state = MenuMain
	m.prev = menuNone
	m.ticked = false
	m.pending = false
	m.view = View{Screen: ScreenMenu}
}

// State returns the current sub-state.
func (m *Menu) State() MenuState {
	return m.state
}

// Step advances the menu. cfg is edited in place while an edit sub-state is active.
func (m *Menu) Step(now time.Time, press bool, cfg *Config, enc Encoder) MenuResult {
	if press {
		m.pending = true
	}
	if m.ticked && !Elapsed(now, m.lastTick, m.interval) {
		return MenuResult{View: m.view}
	}
	m.ticked = true
	m.lastTick = now
	press = m.pending
	m.pending = false

	from := m.prev
	entering := m.state != m.prev
	m.prev = m.state

	var res MenuResult
	switch m.state {
	case MenuMain:
		if entering {
			configureEncoder(enc, CoarseSteps, 0, len(MenuItems)-1, returnCursor(from))
		}
		sel := clamp(enc.Position(), 0, len(MenuItems)-1)
		m.view = View{Screen: ScreenMenu, Selected: sel}
		if press {
			m.state = MenuState(sel + 1)
		}

	case MenuEditPreheat:
		if entering {
			configureEncoder(enc, FineSteps, PreheatMin, min(PreheatMax, cfg.ReflowTarget), cfg.PreheatTarget)
		}
		cfg.PreheatTarget = enc.Position()
		m.view = splashView("PREHEAT", strconv.Itoa(cfg.PreheatTarget))
		if press {
			m.state = MenuMain
		}

	case MenuEditReflow:
		if entering {
			configureEncoder(enc, FineSteps, cfg.PreheatTarget, ReflowMax, cfg.ReflowTarget)
		}
		cfg.ReflowTarget = enc.Position()
		m.view = splashView("REFLOW", strconv.Itoa(cfg.ReflowTarget))
		if press {
			m.state = MenuMain
		}

	case MenuConfirmSave:
		if entering {
			configureEncoder(enc, CoarseSteps, 0, savePositions-1, 0)
		}
		yes := enc.Position() > savePositions/2-1
		m.view = View{Screen: ScreenPrompt, Header: "Save config?", Yes: yes}
		if press {
			res.Save = yes
			m.state = MenuMain
		}

	case MenuExit:
		res.Exit = true

	default:
		m.state = MenuMain
	}

	res.View = m.view
	return res
}

// returnCursor puts the Main cursor back on the item that was just left.
func returnCursor(from MenuState) int {
	if from > MenuMain && from <= MenuExit {
		return int(from) - 1
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
