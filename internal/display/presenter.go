package display

import (
	"fmt"
	"strconv"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

const degree = "C"

// Presenter draws logic views on a Display.
type Presenter struct {
	d Display
}

// NewPresenter creates a Presenter for d.
func NewPresenter(d Display) *Presenter {
	return &Presenter{d: d}
}

// Render draws one full frame for v.
func (p *Presenter) Render(v logic.View) error {
	p.d.Clear()
	switch v.Screen {
	case logic.ScreenSplash:
		p.splash(v.Header, v.Text)
	case logic.ScreenMenu:
		p.menu(v.Selected)
	case logic.ScreenPrompt:
		p.prompt(v.Header, v.Yes)
	default:
		p.main(v)
	}
	if err := p.d.Flush(); err != nil {
		return fmt.Errorf("flush display: %w", err)
	}
	return nil
}

func (p *Presenter) print(text string, x, y, scale int) {
	p.d.SetTextScale(scale)
	p.d.SetCursor(x, y)
	p.d.Print(text)
}

func (p *Presenter) main(v logic.View) {
	p.print(v.Mode.String(), 0, 0, 1)
	p.print(strconv.Itoa(v.Setpoint)+degree, 80, 0, 1)

	temp := strconv.Itoa(v.Temperature) + degree
	if v.SensorFault {
		temp = "ERR"
	}
	p.print(temp, 30, 22, 2)

	if v.Countdown > 0 {
		p.print(fmt.Sprintf("%d sec", v.Countdown), 0, 50, 1)
	}
	if v.ShowPercent {
		p.print(fmt.Sprintf("%d %%", v.Percent), 80, 50, 1)
	}
}

func (p *Presenter) splash(header, text string) {
	if header != "" {
		p.print(header, CenterX(1, len(header)), LineY(1, 0.1), 1)
	}
	p.print(text, CenterX(2, len(text)), LineY(2, 0.5), 2)
}

func (p *Presenter) menu(selected int) {
	for i, item := range logic.MenuItems {
		mark := " "
		if i == selected {
			mark = ">"
		}
		p.print(mark+item, 0, i*16, 2)
	}
}

func (p *Presenter) prompt(header string, yes bool) {
	yesLine, noLine := "  YES", "> NO "
	if yes {
		yesLine, noLine = "> YES", "  NO "
	}
	p.print(header, CenterX(1, len(header)), LineY(1, 0.1), 1)
	y := LineY(2, 0.5)
	p.print(yesLine, CenterX(2, len(yesLine)), y, 2)
	p.print(noLine, CenterX(2, len(noLine)), y+2*GlyphHeight, 2)
}
