// Package services assembles dashboard snapshots from the cached dataset
// and exposes health reporting.
//
// The dashboard service owns selection validation and the per-output
// isolation contract: a failed dataset load aborts the whole snapshot, while
// a failure inside one analytical output is recorded on that output alone.
package services
