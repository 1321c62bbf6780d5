// Package window describes which lines of a stream to read without knowing
// how long the stream is.
//
// A Position is a line boundary counted from the start (Begin) or from the
// end (End) of the stream. A Window pairs two positions with a Direction.
// Resolve turns a Window into a Scan: the same bounds in forward order,
// plus an Empty flag for windows whose bounds coincide or invert.
//
// Degenerate windows are detected from the anchors and offsets alone. When
// the anchors differ (Begin/End or End/Begin) the answer depends on the
// stream length, so those windows are always scanned and may turn out empty.
//
// Typical use:
//
//	w := window.FromCount(10, false) // last 10 lines
//	scan := w.Resolve()
//	if scan.Empty {
//		return nil
//	}
package window
