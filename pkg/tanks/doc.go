// Package tanks implements the tank manager: withdrawal, addition, and
// crude storage across a bank of tanks, enforcing capacity and ordering
// invariants. The manager is the exclusive owner of tank state during a
// scheduler run.
package tanks
