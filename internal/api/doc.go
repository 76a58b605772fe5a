// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between HTTP clients and the
// services in internal/service, translating their errors into status codes
// and safe messages.
package api
