// Package model provides the intermediate representation for reconstructed
// construction budgets ("mediciones y presupuesto" documents).
//
// This package defines the user-facing data structures produced by the
// parsing pipeline. All classification and structure building ultimately
// emits these types, making them the primary API for consuming extracted
// budgets.
//
// # Budget Structure
//
// The [Project] type is the root of the tree:
//
//	project := model.NewProject("REMODELACIÓN CALLE MAYOR", "proyecto.pdf")
//	project.AddChapter(chapter)
//
// Each [Chapter] owns an ordered list of [Subchapter] nodes. Subchapters are
// recursive: a subchapter may own further subchapters of arbitrary depth,
// mirroring dot-delimited codes such as "01.04.01.02". A [Subchapter] may
// also own [Apartado] groupings and [LineItem] rows directly.
//
// Ownership follows the child lists; the Parent pointer on Subchapter exists
// for upward navigation only.
//
// # Geometry
//
// [Word] and [BBox] carry the page-coordinate word boxes consumed by the
// layout package when deciding column flow.
package model
