// Package terminal renders the framebuffer as shaded block characters in a
// real terminal via tcell, translating key presses to joypad button events.
package terminal

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/Coolman4128/EducationBoy/backend"
	"github.com/Coolman4128/EducationBoy/memory"
	"github.com/Coolman4128/EducationBoy/video"
)

// Backend implements backend.Backend using tcell for terminal rendering,
// one character cell per 1x2 framebuffer pixels via the half-block glyph.
type Backend struct {
	screen  tcell.Screen
	config  backend.Config
	pressed map[memory.Button]bool
}

func New() *Backend {
	return &Backend{pressed: make(map[memory.Button]bool)}
}

func (t *Backend) Init(cfg backend.Config) error {
	t.config = cfg

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	t.screen = screen
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	slog.Info("terminal backend initialized", "title", cfg.Title)
	return nil
}

var keyToButton = map[tcell.Key]memory.Button{
	tcell.KeyUp:    memory.ButtonUp,
	tcell.KeyDown:  memory.ButtonDown,
	tcell.KeyLeft:  memory.ButtonLeft,
	tcell.KeyRight: memory.ButtonRight,
	tcell.KeyEnter: memory.ButtonStart,
	tcell.KeyTab:   memory.ButtonSelect,
}

var runeToButton = map[rune]memory.Button{
	'z': memory.ButtonA,
	'x': memory.ButtonB,
}

func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.ButtonEvent, bool, error) {
	var events []backend.ButtonEvent
	quit := false

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				quit = true
				continue
			}

			button, ok := keyToButton[ev.Key()]
			if !ok {
				button, ok = runeToButton[ev.Rune()]
			}
			if ok {
				events = append(events, backend.ButtonEvent{Button: button, Pressed: true})
				events = append(events, backend.ButtonEvent{Button: button, Pressed: false})
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.render(frame)
	return events, quit, nil
}

// render draws two framebuffer rows per terminal row using the Unicode
// upper-half-block glyph (foreground = top pixel, background = bottom).
func (t *Backend) render(frame *video.FrameBuffer) {
	for termY := 0; termY < video.FrameHeight/2; termY++ {
		topY := termY * 2
		bottomY := topY + 1
		for x := 0; x < video.FrameWidth; x++ {
			top := shadeStyle(frame.GetPixel(x, topY))
			bottom := shadeStyle(frame.GetPixel(x, bottomY))
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, termY, '▀', nil, style)
		}
	}
	t.screen.Show()
}

func shadeStyle(pixel uint32) tcell.Color {
	switch video.Color(pixel) {
	case video.WhiteColor:
		return tcell.ColorWhite
	case video.LightGreyColor:
		return tcell.ColorSilver
	case video.DarkGreyColor:
		return tcell.ColorGray
	default:
		return tcell.ColorBlack
	}
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}
