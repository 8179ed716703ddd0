package logic

// Screen selects the layout the presenter draws.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenSplash
	ScreenMenu
	ScreenPrompt
)

// MenuItems are the CONFIG menu entries; item i opens MenuState(i+1).
var MenuItems = [...]string{"Preheat", "Reflow", "Save", "EXIT"}

// View is what the display should show after a tick.
// It is comparable so callers can skip redraws when nothing changed.
type View struct {
	Screen Screen

	// ScreenMain
	Mode        Mode
	Setpoint    int
	Temperature int
	SensorFault bool
	Countdown   int
	Percent     int
	ShowPercent bool

	// ScreenSplash and ScreenPrompt
	Header string
	Text   string

	// ScreenMenu
	Selected int

	// ScreenPrompt
	Yes bool
}

func splashView(header, text string) View {
	return View{Screen: ScreenSplash, Header: header, Text: text}
}
