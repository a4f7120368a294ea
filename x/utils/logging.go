package utils

import (
	"time"

	"github.com/iov-one/arbiter"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ arbiter.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (r Logging) Check(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx, next arbiter.Checker) (*arbiter.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx, next arbiter.Deliverer) (*arbiter.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx arbiter.Context, tx arbiter.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := arbiter.GetLogger(ctx).With(
		"duration", delta/time.Microsecond,
		"path", arbiter.GetPath(tx),
	)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
