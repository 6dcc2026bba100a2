// Package contact implements contact and list management, including the
// unsubscribe path used by both the API and the public tracking surface.
package contact
