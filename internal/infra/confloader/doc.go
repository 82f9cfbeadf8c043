// Package confloader loads keva configuration.
//
// A Loader merges sources into one koanf tree, weakest first:
//
//  1. Defaults already set on the target struct
//  2. A YAML configuration file
//  3. KEVA_* environment variables
//  4. Flag overrides, applied by the caller via LoadMap
//
// The merged tree unmarshals into typed structs along koanf tags.
package confloader
