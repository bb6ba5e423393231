// Package model describes the registration form presentation contract that
// renderers consume: titles, labels, placeholders and input kinds per field,
// loaded from a YAML definition. The builder enriches every field with the
// validation descriptors and time-slot options owned by package registration,
// so renderers never duplicate the rule table. The default definition is
// embedded; callers can load an alternative from any fs.FS as long as it names
// each of the six registration fields exactly once.
package model
