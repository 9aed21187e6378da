// Package template defines the template engine contract used by the HTML
// front end. Engines are swappable so pages can be rendered from embedded or
// on-disk templates.
package template
