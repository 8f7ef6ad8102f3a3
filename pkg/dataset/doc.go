// Package dataset loads the inputs of a flow diagram.
//
// Two files feed the pipeline:
//
//   - Records: the statistical table, a JSON array with one object per
//     province and year. Only the identifying columns (Prvcnm, Prvcnm_id,
//     Sgnyea) are required; every other column is an indicator value.
//     They supply display names for entities.
//   - Assignments: the clustering output, year → entity id → [x, y, label],
//     in JSON or YAML. The label is the category an entity belongs to in
//     that year; x and y are its 2-D embedding.
//
// Rows attributed to the national aggregate (id 142) are dropped from both.
//
// A [Timeline] lists the steps in chronological order and turns each one into
// a [flow.Partition] for ordering.
package dataset
