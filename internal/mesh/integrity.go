package mesh

// maxComponentFaces caps the connected-components scan: beyond this many
// faces the union-find pass is skipped and ComponentCount reports -1
// (spec.md §4.H — the metric is informational, not worth an unbounded scan
// on huge assemblies).
const maxComponentFaces = 500_000

// boundaryEdgeWarnThreshold and boundaryEdgeFailThreshold are the policy
// thresholds from spec.md §4.H/§7: a mesh with more boundary edges than the
// warn threshold is evaluated as SeverityWarn; beyond the fail threshold
// the job fails outright, but only when no clip polygon is active (an
// active clip polygon legitimately produces an open-rimmed mesh).
const (
	boundaryEdgeWarnThreshold = 100_000
	boundaryEdgeFailThreshold = 400_000
)

// Integrity is the set of measurements spec.md §4.H requires of an
// assembled mesh before it is accepted.
type Integrity struct {
	FaceCount      int
	BoundaryEdges  int
	Degenerate     int
	ComponentCount int // -1 if skipped (face count over maxComponentFaces)
	Watertight     bool
}

// Severity is the integrity policy's verdict (spec.md §7).
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityFail
)

// ComputeIntegrity measures the soup's topology: boundary-edge count,
// degenerate-face count, and (if the soup is small enough) connected
// components, matching the reference implementation's
// _mesh_integrity_metrics.
func ComputeIntegrity(s Soup) Integrity {
	result := Integrity{FaceCount: len(s)}

	edgeUse := make(map[edgeKey]int)
	for _, f := range s {
		if isDegenerateFace(f) {
			result.Degenerate++
			continue
		}
		for _, e := range faceEdges(f) {
			edgeUse[e]++
		}
	}
	for _, n := range edgeUse {
		if n == 1 {
			result.BoundaryEdges++
		}
	}
	result.Watertight = result.BoundaryEdges == 0

	if len(s) <= maxComponentFaces {
		result.ComponentCount = countComponents(s)
	} else {
		result.ComponentCount = -1
	}
	return result
}

// Evaluate applies the policy thresholds, treating the fail threshold as
// inactive when hasClipPolygon is true (spec.md §7).
func (in Integrity) Evaluate(hasClipPolygon bool) Severity {
	if !hasClipPolygon && in.BoundaryEdges > boundaryEdgeFailThreshold {
		return SeverityFail
	}
	if in.BoundaryEdges > boundaryEdgeWarnThreshold {
		return SeverityWarn
	}
	return SeverityOK
}

func isDegenerateFace(f Face) bool {
	return f[0] == f[1] || f[1] == f[2] || f[0] == f[2]
}

// edgeKey identifies an undirected edge by its two vertex coordinates,
// order-independent.
type edgeKey struct{ a, b Vec3 }

func faceEdges(f Face) [3]edgeKey {
	return [3]edgeKey{
		normalizeEdge(f[0], f[1]),
		normalizeEdge(f[1], f[2]),
		normalizeEdge(f[2], f[0]),
	}
}

func normalizeEdge(a, b Vec3) edgeKey {
	if less(a, b) {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

func less(a, b Vec3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// countComponents unions faces sharing a vertex coordinate and returns the
// number of distinct bodies.
func countComponents(s Soup) int {
	type parentMap = map[Vec3]Vec3
	parent := make(parentMap)

	var find func(Vec3) Vec3
	find = func(x Vec3) Vec3 {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}
	union := func(a, b Vec3) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, f := range s {
		union(f[0], f[1])
		union(f[1], f[2])
	}

	roots := make(map[Vec3]bool)
	for v := range parent {
		roots[find(v)] = true
	}
	return len(roots)
}
