// Package schedule advances repetition records and builds the choices a
// reviewer is offered for a due item.
//
// Every function in this package is pure: the current time is always passed
// in explicitly and no function reads the wall clock, so results can be
// replayed exactly in tests. Periodic and weekday records are advanced with
// catch-up and time-of-day snapping, spaced records are offered multiples of
// their period, and adaptive records are scheduled through the srs memory
// model.
package schedule
