/*
Package optimizer refines a schedule the greedy scheduler already produced,
re-solving the same horizon as one multi-period linear program instead of
day-by-day greedy choices.

# Model

For a horizon of N days it declares:

  - Rate[day, recipe]  — continuous, bounded by the recipe's max rate
  - Inventory[day, grade] — continuous, day 0 fixed to the opening schedule's
    inventory, days 1..N free but tied to day 0 by a balance constraint

and constrains:

  - Balance: inventory[day-1] + vessel deliveries - recipe consumption =
    inventory[day], per grade per day
  - Capacity: Σ rate[day, *] <= max processing rate, per day
  - Availability: a recipe's rate that day cannot draw more of a grade than
    the previous day's closing inventory held

Objective is either total throughput (Σ rate) or total margin (Σ rate ×
blend margin), maximized over the whole horizon at once — this is what
lets the LP beat the greedy scheduler's day-by-day choices: it can hold
back capacity today if a richer blend becomes available once a vessel
lands tomorrow.

Tank distribution after solve is reconstructed from the LP's per-grade
inventory totals in two passes: first honoring each tank's original grade
assignment up to capacity, then spilling any residual volume into tanks
with headroom (see ReconstructTanks).

If the solver returns anything other than optimal, Optimize returns the
input schedule unchanged — refining a schedule should never leave the
caller worse off than not refining it.
*/
package optimizer
