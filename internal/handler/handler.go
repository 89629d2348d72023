// Package handler is the HTTP layer of the cats API.
//
// It binds and validates requests using the validation package, calls the
// service layer and writes the result back. Errors are returned untouched;
// the global error handler in the middleware package renders them.
package handler
