package engine

import (
	"sort"

	"github.com/opd-ai/go-bumpers/pkg/config"
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// quadCapacity is the number of balls a quad holds before subdividing
const quadCapacity = 8

// PairContact records one resolved ball-ball impulse
type PairContact struct {
	A, B    entity.ID
	Contact physics.Contact
}

// BallRegistry owns the arena's balls and runs the ball-ball pass.
// A ball's ID is its slot index.
type BallRegistry struct {
	balls     []*entity.Ball
	threshold int
	tree      *physics.QuadTree
	candidate [][2]int
}

// NewBallRegistry creates an empty registry. The quadtree broadphase is used
// in unique sweep mode once more than threshold balls are registered;
// a threshold of 0 disables it.
func NewBallRegistry(threshold int) *BallRegistry {
	return &BallRegistry{threshold: threshold}
}

// Spawn creates a ball in the next free slot
func (r *BallRegistry) Spawn(bound physics.Bound, params entity.BallParams, rng entity.RandomSource) *entity.Ball {
	ball := entity.NewBall(entity.ID(len(r.balls)), bound, params, rng)
	r.balls = append(r.balls, ball)
	return ball
}

// Add registers an existing ball, assigning it the next slot ID
func (r *BallRegistry) Add(ball *entity.Ball) {
	ball.ID = entity.ID(len(r.balls))
	r.balls = append(r.balls, ball)
}

// Len returns the number of registered balls
func (r *BallRegistry) Len() int {
	return len(r.balls)
}

// At returns the ball in slot i
func (r *BallRegistry) At(i int) *entity.Ball {
	return r.balls[i]
}

// All returns the balls in slot order. The slice is owned by the registry.
func (r *BallRegistry) All() []*entity.Ball {
	return r.balls
}

// Collide runs one ball-ball pass and returns the contacts it resolved, in
// resolution order. Overlap and distinct identity are both required.
func (r *BallRegistry) Collide(mode string) []PairContact {
	if mode == config.SweepLegacy {
		return r.collideLegacy()
	}
	if r.threshold > 0 && len(r.balls) > r.threshold {
		if contacts, ok := r.collideBroadphase(); ok {
			return contacts
		}
	}
	return r.collideUnique()
}

// collideLegacy sweeps i over [0,n) and j over [1,n). Reversed pairs are
// visited twice and slot 0 is never a second operand.
func (r *BallRegistry) collideLegacy() []PairContact {
	var contacts []PairContact
	for i := 0; i < len(r.balls); i++ {
		for j := 1; j < len(r.balls); j++ {
			contacts = r.resolve(contacts, i, j)
		}
	}
	return contacts
}

func (r *BallRegistry) collideUnique() []PairContact {
	var contacts []PairContact
	for i := 0; i < len(r.balls); i++ {
		for j := i + 1; j < len(r.balls); j++ {
			contacts = r.resolve(contacts, i, j)
		}
	}
	return contacts
}

// collideBroadphase narrows the unique sweep with a quadtree. Impulses change
// velocities only, so candidates gathered up front stay exact for the whole
// pass, and sorting them reproduces the brute-force order. It reports false
// when a ball could not be indexed.
func (r *BallRegistry) collideBroadphase() ([]PairContact, bool) {
	maxRadius := 0.0
	minX, minY := r.balls[0].Position.X, r.balls[0].Position.Y
	maxX, maxY := minX, minY
	for _, b := range r.balls {
		maxRadius = max(maxRadius, b.Radius)
		minX, maxX = min(minX, b.Position.X), max(maxX, b.Position.X)
		minY, maxY = min(minY, b.Position.Y), max(maxY, b.Position.Y)
	}

	// Half-open rect, so pad past the extreme centers
	boundary := physics.Rect{
		Center: physics.Vector2D{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  maxX - minX + 2,
		Height: maxY - minY + 2,
	}
	if r.tree == nil {
		r.tree = physics.NewQuadTree(boundary, quadCapacity)
	} else {
		r.tree.Clear()
		r.tree.Boundary = boundary
	}

	for i, b := range r.balls {
		if !r.tree.Insert(b.Position, i) {
			return nil, false
		}
	}

	r.candidate = r.candidate[:0]
	for i, b := range r.balls {
		reach := 2*(b.Radius+maxRadius) + 2
		area := physics.Rect{Center: b.Position, Width: reach, Height: reach}
		for _, j := range r.tree.Query(area) {
			if j > i {
				r.candidate = append(r.candidate, [2]int{i, j})
			}
		}
	}
	sort.Slice(r.candidate, func(a, b int) bool {
		if r.candidate[a][0] != r.candidate[b][0] {
			return r.candidate[a][0] < r.candidate[b][0]
		}
		return r.candidate[a][1] < r.candidate[b][1]
	})

	var contacts []PairContact
	for _, pair := range r.candidate {
		contacts = r.resolve(contacts, pair[0], pair[1])
	}
	return contacts, true
}

func (r *BallRegistry) resolve(contacts []PairContact, i, j int) []PairContact {
	a, b := r.balls[i], r.balls[j]
	contact, ok := a.Collide(b)
	if !ok {
		return contacts
	}
	return append(contacts, PairContact{A: a.ID, B: b.ID, Contact: contact})
}

// KineticEnergy sums the energy of every ball
func (r *BallRegistry) KineticEnergy() float64 {
	total := 0.0
	for _, b := range r.balls {
		total += b.KineticEnergy()
	}
	return total
}

// ClampSpeed caps every ball's speed and returns how many were clamped
func (r *BallRegistry) ClampSpeed(maxSpeed float64) int {
	clamped := 0
	for _, b := range r.balls {
		if b.ClampVelocity(maxSpeed) {
			clamped++
		}
	}
	return clamped
}
