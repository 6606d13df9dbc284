// pkg/physics/quadtree.go
package physics

const minQuadSize = 1.0

// QuadTree for spatial partitioning of body slots
type QuadTree struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Slots     []int
	Divided   bool
	NorthWest *QuadTree
	NorthEast *QuadTree
	SouthWest *QuadTree
	SouthEast *QuadTree
}

// Rect represents a rectangular area around a center point
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// RectFromBound converts a top-left anchored bound into a centered rect
func RectFromBound(b Bound) Rect {
	return Rect{Center: b.Center(), Width: b.Width, Height: b.Height}
}

// Contains reports whether point lies in the half-open rect
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree(boundary Rect, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Slots:    make([]int, 0, capacity),
	}
}

// Insert stores a slot at point. It returns false when the point lies outside the tree.
func (qt *QuadTree) Insert(point Vector2D, slot int) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	// Stacked points would otherwise subdivide forever
	full := len(qt.Points) >= qt.Capacity
	if !qt.Divided && (!full || qt.Boundary.Width <= minQuadSize || qt.Boundary.Height <= minQuadSize) {
		qt.Points = append(qt.Points, point)
		qt.Slots = append(qt.Slots, slot)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, slot) ||
		qt.NorthEast.Insert(point, slot) ||
		qt.SouthWest.Insert(point, slot) ||
		qt.SouthEast.Insert(point, slot)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	qt.NorthWest = NewQuadTree(Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.NorthEast = NewQuadTree(Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthWest = NewQuadTree(Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthEast = NewQuadTree(Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.Divided = true
}

// Query returns the slots whose points fall inside area
func (qt *QuadTree) Query(area Rect) []int {
	return qt.query(area, nil)
}

func (qt *QuadTree) query(area Rect, found []int) []int {
	if !qt.intersects(area) {
		return found
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			found = append(found, qt.Slots[i])
		}
	}

	if !qt.Divided {
		return found
	}

	found = qt.NorthWest.query(area, found)
	found = qt.NorthEast.query(area, found)
	found = qt.SouthWest.query(area, found)
	return qt.SouthEast.query(area, found)
}

// Clear empties the tree so it can be refilled next frame
func (qt *QuadTree) Clear() {
	qt.Points = qt.Points[:0]
	qt.Slots = qt.Slots[:0]
	qt.Divided = false
	qt.NorthWest = nil
	qt.NorthEast = nil
	qt.SouthWest = nil
	qt.SouthEast = nil
}

func (qt *QuadTree) intersects(area Rect) bool {
	return !(area.Center.X-area.Width/2 > qt.Boundary.Center.X+qt.Boundary.Width/2 ||
		area.Center.X+area.Width/2 < qt.Boundary.Center.X-qt.Boundary.Width/2 ||
		area.Center.Y-area.Height/2 > qt.Boundary.Center.Y+qt.Boundary.Height/2 ||
		area.Center.Y+area.Height/2 < qt.Boundary.Center.Y-qt.Boundary.Height/2)
}
