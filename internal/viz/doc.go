// Package viz is the terminal host for spring simulations.
//
// [Live] is a Bubble Tea model that drives a [sim.Session] at 60 frames per
// second and draws the active model as a braille wireframe ([Canvas],
// [Camera]) next to a lipgloss status panel with an asciigraph energy
// history. [Menu] picks the model before handing over to Live.
//
// # Key Bindings
//
//	Space    play / pause
//	S        single step
//	R        reset
//	1-4      select model
//	+ / -    iterations per frame
//	[ / ]    halve / double dt
//	x y z    rotate (shift reverses)
//	= / _    zoom
//	T        cycle themes
//	?        help overlay
package viz
