// Package viz provides the interactive terminal dashboard.
//
// The left panel lists the tunable parameters; every edit re-runs the
// simulation. The right panel plays the trajectory back with gas and
// environment charts and the four metric tiles at the play head.
//
// # Key Bindings
//
//	j/k     - Select parameter
//	h/l     - Decrease/increase by one slider step
//	enter   - Type a value
//	space   - Pause/Resume playback
//	r       - Restart playback
//	+/-     - Playback speed
//	L       - Toggle symlog gas axis
//	e       - Export telemetry.csv
//	q       - Quit
package viz
