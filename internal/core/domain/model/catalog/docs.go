// Package catalog holds the menu: the static mapping from an emoji token to a
// priced entry.
//
// A Catalog is built once at process start, from Default or from a YAML file
// via LoadYAML, and is read-only afterwards. Tokens may span several code
// points (for example "☕☕" next to "☕"); LongestMatch always prefers the
// longer token at a given position.
package catalog
