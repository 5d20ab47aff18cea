// Package planner turns a feasible blueprint into a total, dependency-respecting
// step order and a normalized severity vector.
//
// Scheduling is greedy: among the steps whose dependencies are all complete,
// the one with the lowest risk score runs next, with ties broken by step id.
// The result depends only on the blueprint and the options passed in.
package planner
