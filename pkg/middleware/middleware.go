// Package middleware provides the HTTP middleware shared by service modules:
// request IDs, panic recovery, request logging, and CORS.
package middleware

import "net/http"

// Stack is an ordered middleware chain. The first entry wraps outermost.
type Stack []func(http.Handler) http.Handler

// Use appends middleware to the end of the chain.
func (s *Stack) Use(mw ...func(http.Handler) http.Handler) {
	*s = append(*s, mw...)
}

// Apply wraps handler with every middleware in the stack.
func (s Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s) - 1; i >= 0; i-- {
		handler = s[i](handler)
	}
	return handler
}
