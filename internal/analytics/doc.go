// Package analytics contains the filter stage and the aggregation pipeline
// over the loaded expedition dataset.
//
// The filter stage derives the selectable year and nationality domains and
// produces exact-match views used by the preview panes. The five analytical
// operations (top climbed peaks, peaks-climbed share, most successful
// climber, yearly trend, Everest successful-climber count) always run over
// the full unfiltered tables, are pure, and fail independently of each
// other.
package analytics
