// Package dataset loads the five-table Himalayan expedition archive
// (expeditions, members, peaks, references, data dictionary) into immutable
// in-memory tables.
//
// Loading trims column names, decodes the references file from its legacy
// Windows-1252 code page, resolves the declared schema mapping against the
// actual columns and applies the documented missing-value defaults (unknown
// expedition outcome, UNKNOWN member peak id / nationality / peak name).
//
// The Cache serves datasets keyed by base directory with explicit Clear and
// Invalidate operations; repeated loads of the same directory return the
// identical in-memory tables.
package dataset
