// Package service contains the business logic.
//
// It sits between the handler and the outbound mail collaborator: it
// receives validated booking data from the handler, renders the two
// notification messages, and dispatches them.
package service
