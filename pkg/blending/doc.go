// Package blending computes blend margins and ranks feasible blending
// recipes against available tank inventory. It holds no state: every
// function takes its inputs as arguments and returns a value.
package blending
