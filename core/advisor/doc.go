// Package advisor decides whether an electric two-wheeler can reach its
// destination, or failing that its nearest charging station, and recommends a
// reduced speed when neither is reachable.
//
// Everything in this package is pure: no I/O, no shared state. Advisor values
// may be used from any number of goroutines.
package advisor
