// Package stability answers which bricks of a settled pile can be taken
// away safely.
//
// A brick R is removable when every brick resting on it either touches the
// ground or rests on at least one other brick as well. The check is local:
// it looks one layer up and never follows the chain further.
//
// For completeness the package also measures the chain reaction of removing
// a single brick. [FallCount] propagates over the support graph, while
// [FallCountResettle] settles the pile again without the brick and counts
// what moved. Both give the same answer; the first is much faster.
//
// [Analyzer] runs both checks for every brick on a bounded pool of
// goroutines and honours context cancellation.
package stability
