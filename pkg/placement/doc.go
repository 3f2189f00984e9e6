// Package placement holds the mutable placement state shared by the legalizer
// and the detailed-improvement passes.
//
// A [Manager] owns three things on top of a network and architecture:
//
//   - Segments: maximal obstruction-free intervals of a row that belong to a
//     single region. Every managed cell lives in exactly one segment once
//     placed, and the segment keeps its cells ordered by x.
//
//   - Legality: the rules every committed placement must satisfy. A placed
//     cell sits on the site grid of its row, inside its segment, within the
//     maximum displacement of its original position, and clear of its
//     neighbors by the larger of their padding and edge spacing. With
//     one-site gaps disallowed, two neighbors may not leave exactly one site
//     between them.
//
//   - A journal. Moves issued between [Manager.Begin] and [Manager.Commit]
//     are recorded so that [Manager.Rollback] restores the previous state
//     exactly. Passes use it to try a batch of moves, check
//     [Manager.Legal] and the objective, and keep or undo the batch.
//
// Managed cells are movable single-height cells. Fixed cells, multi-height
// cells, blockages and terminals are obstructions.
//
// A Manager is not safe for concurrent use.
package placement
