// Package output renders keva CLI command results.
//
// Every command produces a value that renders three ways, selected by
// the --output flag: an aligned text table for people, or JSON or YAML
// for scripts. Commands build Table values for the human form; the
// structured formatters encode the underlying data directly.
package output
