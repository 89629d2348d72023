// Package service contains the business logic of the cats API.
//
// It sits between the handler and repository layers: handlers pass in
// validated values, services apply the use case and talk to repositories
// and the background job queue.
package service
