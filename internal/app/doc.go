// Package app is the composition root for tailf.
//
// # Run flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        TOML defaults, flags override
//	       ├─────> logging.Init()       zerolog on stderr
//	       ├─────> target.Open()        or WaitOpen() with --wait
//	       ├─────> offset.Open()        only with --resume
//	       ├─────> initialRender()      window scan, skipped when resumed
//	       └─────> follow.Loop.Run()    printer, or ui.Run() with --tui
//
// Without --follow, Run returns after the initial window has been printed.
// A read failure during that scan prints the lines read so far and is then
// returned. In follow mode the same failure is logged and the loop retries
// on its next cycle.
//
// # Output
//
// Plain mode writes "index:\tcontent" lines to Options.Stdout through
// render.Printer. With --tui the loop feeds a state.Store and the Bubble Tea
// viewer reads snapshots from it; quitting the viewer stops the loop.
//
// # Cancellation
//
// Canceling ctx is a normal exit. The follow loop saves its resume cursor
// before returning, and a wait for a missing file ends without error.
package app
