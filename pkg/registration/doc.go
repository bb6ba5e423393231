// Package registration defines the registration form data model: the six
// named fields, the static time-slot options and the declarative validation
// table used by controllers and renderers. Validation is a pure function of the
// field value and a clock, so callers can exercise every rule without a UI.
package registration
