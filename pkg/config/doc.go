// Package config loads a planning run's YAML configuration: the crude
// slate, recipe catalog, tank bank, route table, vessel classes, and
// feedstock requirements that cmd/oasis hands to package planner.
package config
