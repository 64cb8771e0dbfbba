// Package handler is the first layer after the router.
//
// It binds requests, validates them through the validation package
// and hands them to the dispatcher or service layer. It acts as the
// interface between the HTTP request and the core business logic.
package handler
