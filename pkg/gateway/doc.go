// Package gateway talks to the remote form service.
//
// Client implements the two calls the application needs: fetching the form
// definition for a roll number and registering a user. Registration results
// are decided by Classify, a pure function over the HTTP status and body, so
// the 409 "already registered" path can be tested without a network.
//
// FileSource serves a local JSON or YAML definition through the same
// FormSource interface for offline development.
package gateway
