// Package middleware holds the HTTP middleware shared by modules: CORS,
// request body limits and request logging.
package middleware

import "net/http"

// Func wraps a handler with cross-cutting behavior.
type Func func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first Func added is the
// outermost wrapper, so it sees the request first.
type Chain struct {
	stack []Func
}

// Use appends middleware to the chain.
func (c *Chain) Use(fns ...Func) {
	c.stack = append(c.stack, fns...)
}

// Len reports how many middleware the chain holds.
func (c *Chain) Len() int {
	return len(c.stack)
}

// Then wraps h with every middleware in the chain.
func (c *Chain) Then(h http.Handler) http.Handler {
	for i := len(c.stack) - 1; i >= 0; i-- {
		h = c.stack[i](h)
	}
	return h
}
