// Package orchestrator wires a form definition to the renderer registry so
// callers can render any session state with a single entry point. Defaults
// (embedded definition, vanilla and text renderers) are applied lazily.
package orchestrator
