// Package interval computes the shortest and longest gaps between
// consecutive wins of each producer.
//
// The computation runs in three pure steps:
//
//	GroupByProducer  ordered winning movies -> producer -> win years
//	Calculate        producer years -> global min/max tie sets
//	Format           tie sets -> domain.PrizeIntervals
//
// Only consecutive pairs of a producer's sorted win years are compared, and
// pairs won in the same year are ignored. Producers are visited in the order
// they were first credited so that results are reproducible.
package interval
