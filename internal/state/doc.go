// Package state provides the thread-safe line store shared by the follow
// loop and the terminal viewer.
//
// # Overview
//
// In --tui mode the follow loop does not print. It hands every reconciled
// batch to a Store, and the viewer polls Store.Snapshot on its own tick:
//
//	follow.Loop                     ui.Model
//	┌────────────────┐            ┌─────────────────┐
//	│ scan + reconcile│           │                 │
//	│      ↓         │            │                 │
//	│ store.Emit()   │───────────→│ store.Snapshot()│
//	│ store.Fail()   │  (mutex)   │      ↓          │
//	│  repeat...     │            │ render viewport │
//	└────────────────┘            └─────────────────┘
//
// # Core Types
//
// Store keeps the newest lines (bounded, DefaultLimit by default) in
// chronological order together with the last line seen and the failure
// counters. Store.Emit has the same signature as render.Printer.Emit, so
// either can be the loop's sink.
//
// Snapshot is a copy of the store at one point in time. Lines and the error
// are cloned, so callers may keep or modify a snapshot freely.
//
// # Update Semantics
//
//	store.Update(lines, nil)
//	→ lines appended, oldest trimmed past the limit
//	→ Last = newest appended line (if any)
//	→ LastError = nil, ConsecutiveFailures = 0
//
//	store.Update(nil, err)
//	→ lines unchanged
//	→ LastError = err, ConsecutiveFailures++
//
// LastUpdated is set in both cases. IsFailing reports two or more failed
// cycles in a row.
package state
