package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/fyshos/screens/internal/layout"
)

var rotations = []layout.Rotation{
	layout.RotationNormal, layout.RotationLeft, layout.RotationInverted, layout.RotationRight,
}

type gui struct {
	win       fyne.Window
	connected *fyne.Container
	offline   *fyne.Container

	mgr       *layout.Manager
	placement layout.Relation
	state     State
	panels    map[string]*screenGui
}

func newGUI(placement layout.Relation) *gui {
	return &gui{placement: placement, panels: map[string]*screenGui{}}
}

func (g *gui) makeWindow(a fyne.App) fyne.Window {
	w := a.NewWindow("Screens")
	g.win = w

	g.connected = container.NewHBox()
	g.offline = container.NewVBox()

	w.SetContent(container.NewBorder(nil,
		container.NewVBox(widget.NewSeparator(), widget.NewLabel("Inactive"), g.offline),
		nil, nil, container.NewHScroll(g.connected)))
	w.Resize(fyne.NewSize(520, 320))
	return w
}

// screenGui is the panel of one enabled output.
type screenGui struct {
	name    *widget.Label
	active  *widget.Check
	primary *widget.Check

	resolution *widget.Select
	rotation   *widget.Select
	place      *widget.Select

	screen *canvas.Rectangle
	label  *widget.Label
}

func (p *screenGui) makeUI() fyne.CanvasObject {
	p.name = widget.NewLabel("")
	p.name.TextStyle.Bold = true
	p.active = widget.NewCheck("Active", nil)
	p.primary = widget.NewCheck("Primary", nil)
	p.resolution = widget.NewSelect(nil, nil)
	p.rotation = widget.NewSelect(nil, nil)
	p.place = widget.NewSelect(nil, nil)
	p.place.PlaceHolder = "Position"

	p.screen = canvas.NewRectangle(theme.Color(theme.ColorNamePrimary))
	p.screen.CornerRadius = theme.InputRadiusSize()
	p.label = widget.NewLabel("")

	return container.NewVBox(
		p.name,
		container.NewCenter(container.NewStack(p.screen, p.label)),
		container.NewHBox(p.active, p.primary),
		widget.NewForm(
			widget.NewFormItem("Resolution", p.resolution),
			widget.NewFormItem("Rotation", p.rotation),
			widget.NewFormItem("Position", p.place),
		),
	)
}

// run performs a layout change and reloads the window from the server.
func (g *gui) run(what string, fn func() error) {
	if err := fn(); err != nil {
		fyne.LogError("Failed to "+what, err)
		dialog.ShowError(err, g.win)
	}
	g.loadScreens()
}

func (g *gui) loadScreens() {
	g.connected.RemoveAll()
	g.offline.RemoveAll()
	g.panels = map[string]*screenGui{}

	state, err := loadState(g.mgr)
	if err != nil {
		dialog.ShowError(err, g.win)
		return
	}
	g.state = state
	primary, _ := state.primary()

	for _, output := range state.outputs {
		if !output.Connected {
			continue
		}

		if !output.Enabled() {
			g.offline.Add(widget.NewCheck(output.Name, func(on bool) {
				if on {
					g.run("activate output", func() error { return g.activate(output) })
				}
			}))
			continue
		}

		g.addPanel(output, output.ID == primary.ID, primary)
	}
}

func (g *gui) addPanel(output layout.Output, isPrimary bool, primary layout.Output) {
	panel := &screenGui{}
	ui := panel.makeUI()
	g.panels[output.Name] = panel
	panel.name.SetText(output.Name)

	panel.active.SetChecked(true)
	panel.primary.SetChecked(isPrimary)
	if isPrimary {
		panel.active.Disable()
		panel.primary.Disable()
		panel.place.Disable()
	}
	panel.active.OnChanged = func(on bool) {
		if !on {
			g.run("deactivate output", func() error { return g.mgr.Disable(output) })
		}
	}
	panel.primary.OnChanged = func(on bool) {
		if on {
			g.run("set primary output", func() error { return g.mgr.SetPrimary(output) })
		}
	}

	options, modes := resolutionOptions(g.state.modes[output.ID])
	panel.resolution.SetOptions(options)
	for _, m := range g.state.modes[output.ID] {
		if m.ID == output.CurrentMode {
			panel.resolution.SetSelected(resolutionName(m))
		}
	}
	panel.resolution.OnChanged = func(name string) {
		g.run("set resolution", func() error { return g.mgr.SetMode(output, modes[name]) })
	}

	crtc, _ := g.state.crtc(output.Crtc)
	var names []string
	for _, r := range rotations {
		if crtc.SupportsRotation(r) {
			names = append(names, r.String())
		}
	}
	panel.rotation.SetOptions(names)
	panel.rotation.SetSelected(crtc.Rotation.String())
	panel.rotation.OnChanged = func(name string) {
		g.run("rotate output", func() error {
			r, err := layout.ParseRotationName(name)
			if err != nil {
				return err
			}
			return g.mgr.SetRotation(output, r)
		})
	}

	panel.place.SetOptions([]string{
		layout.LeftOf.String(), layout.RightOf.String(), layout.Above.String(),
		layout.Below.String(), layout.SameAs.String(),
	})
	panel.place.OnChanged = func(name string) {
		g.run("position output", func() error {
			rel, err := layout.ParseRelation(name)
			if err != nil {
				return err
			}
			return g.mgr.SetPosition(output, rel, primary)
		})
	}

	const previewWidth = 150
	if crtc.Width > 0 && crtc.Height > 0 {
		aspect := float32(crtc.Width) / float32(crtc.Height)
		panel.screen.SetMinSize(fyne.NewSize(previewWidth, previewWidth/aspect))
	}
	panel.label.Alignment = fyne.TextAlignCenter
	panel.label.SetText(output.Name)

	g.connected.Add(ui)
}

// activate enables out on the outer edge of the layout in the configured
// direction.
func (g *gui) activate(out layout.Output) error {
	anchor, ok := g.state.anchor(g.placement)
	if !ok {
		return g.mgr.Enable(out)
	}
	return g.mgr.EnableNextTo(out, g.placement, anchor)
}
