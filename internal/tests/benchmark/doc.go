// Package benchmark measures the hot paths of the store: table
// operations, snapshot encode and decode, and the cipher layer.
//
// The usual invocation:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// To focus on one layer, match its prefix, for example the in-memory
// table:
//
//	go test -bench=BenchmarkTable -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// For before/after comparisons, collect several runs and feed them to
// benchstat:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee new.txt
//	benchstat old.txt new.txt
package benchmark
