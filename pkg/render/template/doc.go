// Package template defines the template engine seam HTML renderers depend on.
// The pongo2-backed implementation lives in the gotemplate subpackage.
package template
