// Package controller owns the state of one registration form session. State
// transitions are expressed as events folded by a pure Reducer; Controller
// wraps the reducer with locking, logging and the asynchronous submission
// performed through an injected Submitter.
//
// Submission lifecycle:
//
//	Idle --SubmitRequested (valid)--> Submitting --SubmitResolved--> Submitted
//	Idle --SubmitRequested (invalid)--> Idle (every field touched)
//	Submitting --SubmitFailed--> Idle (SubmitError set)
//	Submitted --ResetRequested--> Idle
package controller
