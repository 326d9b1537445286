package geometry

import "gonum.org/v1/gonum/spatial/r3"

// IntegrateOneForm samples field at every edge midpoint and returns its
// circulation along the edge, keyed in external labels in the orientation of
// the canonical half-edge. Exact for constant fields.
func IntegrateOneForm(g *Geometry, t *Transfer, field func(p r3.Vec) r3.Vec) map[EdgeKey]float64 {
	out := make(map[EdgeKey]float64, g.Mesh.NEdges())
	for e := Edge(0); e < Edge(g.Mesh.NEdges()); e++ {
		a, b := g.Mesh.EdgeVertices(e)
		pa, pb := g.Position(a), g.Position(b)
		mid := r3.Scale(0.5, r3.Add(pa, pb))
		out[t.EdgeKeyOf(e)] = r3.Dot(field(mid), r3.Sub(pb, pa))
	}
	return out
}
