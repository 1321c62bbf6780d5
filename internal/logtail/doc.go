// Package logtail reads bounded windows of lines from a stream and keeps a
// followed stream's line numbering consistent as it grows.
//
// # Overview
//
// The package has two halves:
//
//  1. Scan: one forward pass over a reader that returns the lines a
//     window.Window selects, without knowing the stream length up front
//  2. Reconcile: renumbers lines read on a later follow cycle against the
//     last line of the previous cycle, stitching a line that was cut off
//     before its terminator arrived
//
// # Scanning
//
// Scan never seeks. It reads line by line, counting as it goes, and keeps
// only what the window can still need:
//
//   - Lines before a Begin-anchored start are counted and dropped
//   - A Begin-anchored stop ends the scan as soon as enough lines are read
//   - An End-anchored start bounds retention with a ring buffer, the same
//     ring technique a plain "last N lines" reader uses
//   - An End-anchored stop is applied after the end of the stream is
//     reached, by trimming the newest retained lines
//
// Memory use is O(window size) for End-anchored windows and time is O(n)
// in the lines read. Lines keep their terminator ("\n" or "\r\n"); a final
// line without one is still a line.
//
// Example usage:
//
//	lines, err := logtail.Scan(file, window.FromCount(10, false))
//	var scanErr *logtail.ScanError
//	if errors.As(err, &scanErr) {
//		// scanErr.Lines were read before the failure
//	}
//
// # Emission order
//
// Top-to-bottom windows come back oldest first and bottom-to-top windows
// newest first. Chronological restores stream order for either.
//
// # Following
//
// A follow cycle scans window.All(dir) from the stream's current cursor, so
// indices restart at 1. Reconcile shifts them by the previous last index.
// When the previous line had no terminator and the batch's oldest line is
// just that terminator, the terminator is appended to the previous line and
// the shift is one less, keeping indices contiguous across cycles.
//
// # Error Handling
//
// Scan returns every I/O error as a *ScanError together with the lines read
// before it, so callers can show partial output first. Reconcile and
// Renumber cannot fail.
package logtail
