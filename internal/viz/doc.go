// Package viz presents the result of a tank run.
//
// Terminal output uses lipgloss styles picked from a small set of themes,
// with asciigraph line charts of the trajectories. [WriteFigure] renders
// the same data as a PNG, with one tangent construction panel per step
// event showing where the tangent crosses the pre-step, 63% and final
// levels.
package viz
