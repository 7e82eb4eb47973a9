// Package template defines the engine seam document rendering relies on.
// The gotemplate subpackage provides the pongo2-backed implementation.
package template
