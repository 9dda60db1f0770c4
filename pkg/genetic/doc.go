/*
Package genetic evolves hour-by-hour refinery schedules over a short
horizon (typically a week) that jointly optimize margin, throughput, and
operational stability — objectives the day-granular greedy scheduler and
LP refiner don't reason about at all.

A chromosome is a sequence of days, each a fixed 24-slot array of
types.HourlyOperation; a slot is either productive (a recipe running at
an hourly rate) or a multi-hour changeover between two recipes.
Population members are bred with tournament selection, day-wise uniform
crossover, and one of four mutation operators, with a repair pass after
every structural change that lengthens short recipe runs backward and
scales any over-capacity day down to the daily capacity.

Fitness is a weighted sum of a margin score, a throughput score, and an
operational-stability score, computed only after a feasibility
simulation confirms no tank grade would go negative if this chromosome's
schedule were actually run — infeasible chromosomes are kept in the
population (so later mutation can repair them) but scored far below any
feasible one.
*/
package genetic
