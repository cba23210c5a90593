package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/mkor/wildstream/geojson"
	"github.com/mkor/wildstream/utils"
)

// Application is the interactive browser: it shows the dataset header
// first, then one feature per keypress, straight off the stream. Useful
// for eyeballing a few features of a file too large to open anywhere else.
type Application struct {
	reader *geojson.Reader

	screen tcell.Screen
	width  int
	height int

	shown int // features shown so far, for the status line
}

func NewApplication(reader *geojson.Reader) *Application {
	return &Application{reader: reader}
}

func (a *Application) Run(ctx context.Context, cancelCtx context.CancelFunc) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	a.screen = screen

	quit := func() {
		// You have to catch panics in a defer, clean up, and
		// re-raise them - otherwise your application can
		// die without leaving any diagnostic trace.
		maybePanic := recover()
		screen.Fini()
		if maybePanic != nil {
			panic(maybePanic)
		}
	}
	defer quit()

	a.width, a.height = screen.Size()

	header, err := a.reader.Header()
	if err != nil {
		return err
	}
	if err := a.showValue("header", header); err != nil {
		return err
	}

	go func() {
		for {
			ev := screen.PollEvent()

			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.width, a.height = screen.Size()
				screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancelCtx()
					return
				}
				switch ev.Rune() {
				case 'n', ' ':
					if err := a.showNextFeature(); err != nil {
						cancelCtx()
						return
					}
				case 'r':
					if err := a.reader.Rewind(); err != nil {
						cancelCtx()
						return
					}
					a.shown = 0
					if err := a.showNextFeature(); err != nil {
						cancelCtx()
						return
					}
				}
			}
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}

func (a *Application) showNextFeature() error {
	feat, ok, err := a.reader.Next()
	if err != nil {
		return err
	}
	if !ok {
		a.draw("end of features (r to rewind, q to quit)", nil)
		return nil
	}
	a.shown++
	return a.showValue(fmt.Sprintf("feature %d (n: next, r: rewind, q: quit)", a.shown), feat)
}

func (a *Application) showValue(title string, value any) error {
	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	a.draw(title, body)
	return nil
}

func (a *Application) draw(title string, body []byte) {
	a.screen.Clear()
	a.puts(0, 0, title, tcell.StyleDefault.Bold(true))

	row := 1
	for _, line := range utils.WordWrap(string(body), a.width) {
		if row >= a.height {
			break
		}
		a.puts(0, row, line, tcell.StyleDefault)
		row++
	}
	a.screen.Show()
}

func (a *Application) puts(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= a.width {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
