// Package model holds the resource and request shapes shared by the
// handler, service and repository layers.
package model
