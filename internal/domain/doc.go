// Package domain contains the core entities of the scheduler: repetition
// records, adaptive memory cards, review choices and review log entries.
// It is independent of any storage, codec or delivery mechanism.
//
// Subpackages hold the pure scheduling logic: srs implements the adaptive
// memory model and schedule implements due-date advancement and choice
// generation on top of it.
package domain
