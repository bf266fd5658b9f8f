package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound covers both "no such document" and "owned by someone else".
	// The two are indistinguishable on purpose: every lookup filters on the
	// owner, so a foreign conversation looks exactly like a missing one.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")
)

// wrapStore tags an underlying driver error with the failed operation and
// classifies connection-level failures as ErrUnavailable. No retries here;
// callers decide what is worth retrying.
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("mongo %s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}

// IsDup reports a unique-index violation. Inserts surface it as a
// WriteException; findAndModify surfaces it as a CommandError value, so all
// three shapes have to be matched.
func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	var cep *mongo.CommandError
	if errors.As(err, &cep) && cep.Code == 11000 {
		return true
	}
	return false
}
