package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]arbiter.Handler
}

var _ arbiter.Registry = (*Router)(nil)
var _ arbiter.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]arbiter.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h arbiter.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) handler(tx arbiter.Tx) arbiter.Handler {
	msg, err := tx.GetMsg()
	if err != nil {
		return failure{err: errors.Wrap(err, "cannot get message")}
	}
	if msg == nil {
		return failure{err: errors.Wrap(errors.ErrMsg, "no message")}
	}
	path := msg.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return failure{err: errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)}
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	return r.handler(tx).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	return r.handler(tx).Deliver(ctx, store, tx)
}

// failure is a handler that always returns an error.
type failure struct {
	err error
}

func (f failure) Check(arbiter.Context, arbiter.KVStore, arbiter.Tx) (*arbiter.CheckResult, error) {
	return nil, f.err
}

func (f failure) Deliver(arbiter.Context, arbiter.KVStore, arbiter.Tx) (*arbiter.DeliverResult, error) {
	return nil, f.err
}
