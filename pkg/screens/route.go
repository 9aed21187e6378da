// Package screens holds the login and form controllers shared by the web and
// terminal front ends. Controllers emit notices and return the Route the
// front end should show next; they never render anything themselves.
package screens

import "errors"

// Route names a screen.
type Route string

const (
	RouteLogin Route = "/"
	RouteForm  Route = "/form"
)

func (r Route) String() string { return string(r) }

// ErrBusy is returned when an action is triggered while a request from the
// same screen is still in flight.
var ErrBusy = errors.New("screens: request already in progress")

// Notice texts.
const (
	MsgFillAllFields   = "Please fill all the fields to continue!"
	MsgUserExists      = "User exists! Trying to login with the existing information."
	MsgLoginFailed     = "Something went wrong! Check the console for errors."
	MsgPleaseLogin     = "Please login to continue!"
	MsgFetchFailed     = "Something went wrong! Check the console."
	MsgLogoutConfirm   = "Are you sure?"
	MsgStalePage       = "This page was out of date and your changes were not saved. Please check the section and try again."
	welcomeMessageTmpl = "Welcome %s! You're logged in :)"
)
