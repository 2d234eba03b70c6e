// Package display derives what a page shows from backend payloads: sorted,
// filtered, truncated and formatted views.
//
// Every function is pure. Inputs are never mutated, sorts are stable so ties
// keep backend order, and applying a transform twice yields the same result
// as applying it once.
package display
