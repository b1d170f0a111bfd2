// Package core provides the query pipeline for the settlement lookup.
//
// The package is independent of any UI or transport layer. Web handlers,
// the terminal CLI and tests all drive the same functions.
//
// # Pipeline
//
// One render cycle runs four pure stages over an ordered []Record:
//
//  1. [Search] keeps records where any field contains the query after [Normalize]
//  2. [ApplyFilters] narrows by column constraints (exact match, locality by containment)
//  3. [Facets] derives dropdown options from the search output, each facet
//     ignoring its own constraint so the dropdowns cascade
//  4. [Paginate] slices the filtered set into pages of [DefaultPageSize]
//
// [Run] executes a full cycle from scratch. [Browser] keeps the same state
// interactively and memoizes the derived views; both produce identical
// results for identical inputs.
//
// # Normalization
//
// [Normalize] applies Turkish lowercasing and then folds İ/I/ı, Ü, Ö, Ç, Ğ, Ş
// to i, u, o, c, g, s. It is not full Unicode case folding: "cesme" matches
// "Çeşme" and "ISTANBUL" matches "İstanbul".
//
// # Datasets
//
// [Catalog] holds the current [Dataset] snapshot loaded through a [Loader].
// The core never knows whether the records came from the primary source or
// a fallback.
package core
