// Package formflow drives one respondent through a sectioned form.
//
// A Flow owns the definition, the values entered so far and the pagination
// cursor. Next validates the current section before advancing, Previous moves
// back without validating, and Submit validates the last section and hands
// the collected data to a Submitter. The lifecycle (editing, submitted) is a
// small finite state machine.
package formflow
