package game

// menuChrome is the scrolling backdrop shared by the menu-family states: a
// composed helper each state drives from its own Update/Render rather than a
// base class they inherit from.
type menuChrome struct {
	surface RenderSurface
	bgX     float64
	groundX float64
}

func newMenuChrome(surface RenderSurface) *menuChrome {
	return &menuChrome{surface: surface}
}

func (ch *menuChrome) step() {
	ch.bgX -= GameSpeed * 0.2
	if ch.bgX < -Width {
		ch.bgX = 0
	}
	ch.groundX -= GameSpeed
	if ch.groundX < -Width {
		ch.groundX = 0
	}
}

func (ch *menuChrome) render() {
	ch.surface.Clear()
	ch.surface.DrawSprite("background", ch.bgX, 0)
	ch.surface.DrawSprite("ground", ch.groundX, Height-GroundHeight)
	ch.surface.DrawSprite("bird", Width/2-birdWidth/2, 120)
}
