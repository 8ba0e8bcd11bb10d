package game

import "math/rand"

// World geometry and motion constants, shared with the server's obstacle
// clock.
const (
	Width        = 432
	Height       = 644
	GameSpeed    = 2
	GroundHeight = 146
	PipeGap      = 156
	PipeWidth    = 78

	Gravity    = 0.05
	JumpHeight = 3

	birdWidth  = 58 * 0.8
	birdHeight = 48 * 0.8

	// pipeFrequencyFrames spaces locally generated pipes in offline play;
	// online the server clock decides.
	pipeFrequencyFrames = 120
)

// Bird is the local player's avatar or a peer's last-known one.
type Bird struct {
	ID        string
	X, Y      float64
	VelocityY float64
	Colliding bool
}

func newBird(id string) *Bird {
	return &Bird{ID: id, X: 50, Y: Height/2 - 100}
}

func (b *Bird) Jump() {
	b.VelocityY = -JumpHeight
}

// Step advances one physics tick.
func (b *Bird) Step() {
	b.VelocityY += Gravity
	b.Y += b.VelocityY
}

// Pipe is one obstacle pair, identified by the vertical offset of its gap.
type Pipe struct {
	X, Y   float64
	Passed bool
}

func (p *Pipe) Step() {
	p.X -= GameSpeed
}

// localGapY mirrors the server's gap formula for offline play.
func localGapY() float64 {
	return rand.Float64()*(Height-PipeGap-GroundHeight) + (-Height + PipeGap/2)
}

// collides reports whether the bird is out of bounds or intersecting a pipe.
func collides(b *Bird, pipes []*Pipe) bool {
	if b.Y < 0 || b.Y+birdHeight > Height-GroundHeight {
		return true
	}
	for _, p := range pipes {
		inPipeX := b.X+birdWidth > p.X && b.X < p.X+PipeWidth
		inTopPipe := b.Y < p.Y+Height-PipeGap/2
		inBottomPipe := b.Y+birdHeight > p.Y+Height+PipeGap/2
		if inPipeX && (inTopPipe || inBottomPipe) {
			return true
		}
	}
	return false
}
