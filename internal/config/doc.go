// Package config loads declarative table manifests.
//
// A manifest is a YAML document listing table definitions: name, ordering,
// privacy, concurrency hints and counter mode. Manifests are validated
// against an embedded CUE schema before unmarshalling, so malformed input
// fails with a positioned schema error instead of a zero-valued table.
//
// Manifest-defined tables are string-keyed byte caches: the dynamic
// configuration boundary cannot carry compile-time type parameters, so the
// generic table API remains the path for typed tables built in code.
package config
