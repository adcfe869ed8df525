package shapes

import (
	"sort"
	"sync"

	"georoute.onebusaway.org/internal/geo"
	"github.com/tidwall/rtree"
)

// Index holds polylines by id in an R-tree keyed on their bounding boxes.
// Candidates found by box overlap are confirmed with the shape's exact
// IntersectsPointList test. It is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	tree   rtree.RTreeG[string]
	lines  map[string]geo.PointSequence
	bounds map[string]geo.BBox
}

func NewIndex() *Index {
	return &Index{
		lines:  make(map[string]geo.PointSequence),
		bounds: make(map[string]geo.BBox),
	}
}

// Insert adds or replaces the polyline stored under id. Empty polylines are
// ignored.
func (idx *Index) Insert(id string, points geo.PointSequence) {
	b := geo.CalculateBBox(points)
	if !b.IsValid() {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(id)
	idx.tree.Insert(boxMin(b), boxMax(b), id)
	idx.lines[id] = points
	idx.bounds[id] = b
}

// Remove deletes id and reports whether it was present.
func (idx *Index) Remove(id string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(id)
}

func (idx *Index) removeLocked(id string) bool {
	b, ok := idx.bounds[id]
	if !ok {
		return false
	}
	idx.tree.Delete(boxMin(b), boxMax(b), id)
	delete(idx.lines, id)
	delete(idx.bounds, id)
	return true
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.lines)
}

// Get returns the polyline stored under id.
func (idx *Index) Get(id string) (geo.PointSequence, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	points, ok := idx.lines[id]
	return points, ok
}

// Query returns the sorted ids of all polylines intersecting shape.
func (idx *Index) Query(shape Shape) []string {
	search := shape.Bounds()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var ids []string
	visit := func(_, _ [2]float64, id string) bool {
		if shape.IntersectsPointList(idx.lines[id]) {
			ids = append(ids, id)
		}
		return true
	}

	if search.MinLon < -180 || search.MaxLon > 180 {
		// the box wraps past the antimeridian; let the exact test decide
		idx.tree.Scan(visit)
	} else {
		idx.tree.Search(boxMin(search), boxMax(search), visit)
	}

	sort.Strings(ids)
	return ids
}

// QueryPoint returns the ids of polylines passing within radius meters of
// the given point.
func (idx *Index) QueryPoint(lat, lon, radius float64) []string {
	return idx.Query(NewCircle(lat, lon, radius))
}

func boxMin(b geo.BBox) [2]float64 {
	return [2]float64{b.MinLon, b.MinLat}
}

func boxMax(b geo.BBox) [2]float64 {
	return [2]float64{b.MaxLon, b.MaxLat}
}
