// Package sink serializes [diagram.Diagram] values.
//
// JSON is the interchange form consumed by renderers and stored by the
// service. DOT output collapses the diagram into a band graph (one node per
// band, one weighted edge per band pair that entities move between) and is
// meant for eyeballing the flow structure with Graphviz, not for publishing.
package sink
