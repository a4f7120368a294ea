package arbitertest

import "github.com/iov-one/arbiter"

// Handler is a mock implementation of the arbiter.Handler interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult arbiter.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult arbiter.DeliverResult
	DeliverErr    error
}

var _ arbiter.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a single key/value pair to the store before
// returning the configured error, if any. It is used to ensure that
// failed transactions do not leak their writes.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ arbiter.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &arbiter.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &arbiter.DeliverResult{}, nil
}
