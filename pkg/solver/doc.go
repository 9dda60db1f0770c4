/*
Package solver is a narrow mathematical-programming abstraction used by the
LP refinement optimizer and the vessel network-flow optimizer. Neither
caller touches a tableau or a branch-and-bound tree directly; both go
through three operations:

	h, err := solver.Build(problem)
	result, err := solver.Solve(h, timeLimit, relativeGap)
	values := solver.Extract(h)

Build validates a Problem (variables, linear constraints, a linear
objective) and compiles it into a Handle. Solve runs a primal two-phase
simplex for continuous problems, or branch-and-bound over that simplex for
problems with integer variables. The wall-clock time limit bounds only
the branch-and-bound search, which then returns the best integer solution
found, even when it is merely feasible rather than provably optimal; the
relative MIP gap does not end the search early and is only reported back
for a search that stopped before finishing. Extract
reads the variable values out of the handle's last solve.

No third-party linear/integer programming library appears anywhere in the
reference corpus, so this package is hand-rolled; see DESIGN.md for that
justification. Problem sizes here are the modest ones a refinery planning
horizon produces (tens to low hundreds of variables), not the scale an
industrial solver is built for.
*/
package solver
