// Package diagram computes the geometry of an alluvial flow diagram from an
// ordered timeline.
//
// The output is pure data for a rendering collaborator: one [Column] per
// time step with its stacked category [Band]s, and one [Flow] per entity
// with a [Point] in every step it appears in. Drawing (SVG, canvas, ...)
// happens elsewhere; see package sink for serialized forms.
//
// # Geometry
//
// Steps are spread linearly over the inner width, earliest year on the left.
// Within a step every entity gets an equal vertical slot; entities are
// stacked in label order, then in their order inside the group:
//
//	slot   = innerHeight / entitiesInStep
//	ribbon = top + (i + RibbonOffset) * slot,  height RibbonFraction * slot
//	band   = top + (first - BandInset) * slot, height count * slot
//
// Bands are BandFraction of one year's horizontal spacing wide.
package diagram
