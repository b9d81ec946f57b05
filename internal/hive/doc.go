// Package hive implements the shared-accumulator simulation: a colony of
// bees repeatedly forages and deposits nectar into a single total guarded by
// a mutex, while a monitor renders the hive at a fixed cadence.
package hive
