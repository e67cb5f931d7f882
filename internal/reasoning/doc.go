// Package reasoning delegates anomaly classification to an external text
// generation service.
//
// The Adapter renders a prompt from the reconciled batch context, waits for
// a Pacer slot so calls stay at least the configured interval apart, sends
// the prompt through a Generator and extracts the first JSON object from the
// reply. It never returns an error: every failure becomes an Outcome whose
// Summary explains what went wrong.
package reasoning
