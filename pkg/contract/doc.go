// Package contract publishes the payload handed to the submission
// collaborator as an OpenAPI 3 document. The schema carries the structural
// constraints of the registration fields (required, lengths, patterns, the
// time-slot enum); clock-dependent rules such as "date not in the past" remain
// in package registration.
package contract
