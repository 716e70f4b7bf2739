// Package loop implements the closed-loop life-support integrator.
//
// Four coupled state variables are advanced with forward-Euler style
// difference equations:
//
//   - CO₂ accumulates from metabolic production and is scrubbed in proportion
//     to the current level
//   - O₂ is regenerated from the scrubbed CO₂, scaled by the photosynthesis yield
//   - temperature gains heat with the net CO₂ change and is pulled back toward
//     the setpoint by the radiator
//   - humidity gains moisture with the same net CO₂ change and is removed by
//     the condenser
//
// [Simulate] is a pure function: the same [Params] always produce a
// bitwise-identical [Trajectory].
//
//	tr, err := loop.Simulate(loop.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	final := tr.Final()
package loop
