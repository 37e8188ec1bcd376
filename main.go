package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/fyshos/screens/internal/config"
	"github.com/fyshos/screens/internal/layout"
	"github.com/fyshos/screens/internal/xrandr"
)

func main() {
	a := app.New()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fyne.LogError("Could not load config, using defaults", err)
		cfg = config.Default()
	}
	placement, _ := cfg.Relation()

	g := newGUI(placement)
	w := g.makeWindow(a)

	session, err := xrandr.Open(nil)
	if err != nil {
		dialog.ShowError(err, w)
		w.ShowAndRun()
		return
	}
	defer session.Close()

	g.mgr = layout.NewManager(session, layout.WithFallbackDPI(cfg.FallbackDPI))
	g.loadScreens()
	g.setupActions(session)

	w.ShowAndRun()
}

// setupActions reloads the window whenever the outputs change outside of it.
func (g *gui) setupActions(s *xrandr.Session) {
	err := s.Watch(func() {
		fyne.Do(g.loadScreens)
	})
	if err != nil {
		fyne.LogError("Could not connect to Xserver for events", err)
	}
}
