package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cube() Soup {
	// The bottom (z=0) and top (z=1) squares of a unit cube, 4 triangles,
	// each face independently duplicating its own corner coordinates (as a
	// soup would before repair). The two top triangles are wound with their
	// normal pointing -z. The squares share no vertex, so repair treats them
	// as two separate flat bodies.
	v := func(x, y, z float32) Vec3 { return Vec3{x, y, z} }
	var s Soup
	// bottom (z=0), correctly outward (normal -z)
	s = append(s, NewFace(v(0, 0, 0), v(0, 1, 0), v(1, 0, 0)))
	s = append(s, NewFace(v(1, 0, 0), v(0, 1, 0), v(1, 1, 0)))
	// top (z=1), intentionally flipped (normal -z instead of +z)
	s = append(s, NewFace(v(0, 0, 1), v(0, 1, 1), v(1, 0, 1)))
	s = append(s, NewFace(v(1, 0, 1), v(0, 1, 1), v(1, 1, 1)))
	return s
}

func TestRepair_MergesCoincidentVertices(t *testing.T) {
	s := cube()
	idx, verts := buildIndexed(s, 1e-4)
	require.Len(t, idx, len(s))
	require.LessOrEqual(t, len(verts), 8, "a unit cube's 4 faces reference at most 8 distinct corners")
}

func TestRepair_DropsDegenerateFaces(t *testing.T) {
	v := Vec3{0, 0, 0}
	s := Soup{NewFace(v, v, Vec3{1, 0, 0})}
	out := Repair(s, DefaultRepairOptions())
	require.Empty(t, out)
}

func TestRepair_DropsDuplicateFacesWhenEnabled(t *testing.T) {
	a, b, c := Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}
	s := Soup{NewFace(a, b, c), NewFace(a, b, c), NewFace(b, c, a)}

	full := Repair(s, RepairOptions{MergeTolerance: 1e-4, DropDuplicateFaces: true})
	require.Len(t, full, 1)

	global := RepairGlobal(s, 1e-4)
	require.Len(t, global, 3, "global repair never drops duplicate faces (terrain/wall shared edges)")
}

func TestRepair_OrientationKeepsFacesAxisAligned(t *testing.T) {
	out := Repair(cube(), DefaultRepairOptions())
	require.Len(t, out, 4)

	for _, f := range out {
		nx, ny, nz := faceNormal(f[0], f[1], f[2])
		// Each flat body's centroid lies in its own plane, so the
		// orientation pass has no inside to judge against; what is checked
		// is that every face stays parallel to the XY plane and non-degenerate.
		require.True(t, nx == 0 && ny == 0, "faces should remain axis-aligned after orientation fix")
		require.NotZero(t, nz)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	once := Repair(cube(), DefaultRepairOptions())
	twice := Repair(once, DefaultRepairOptions())
	require.Len(t, twice, len(once))
}
