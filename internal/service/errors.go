package service

import (
	"errors"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
)

// recoverBackend turns a panic raised below the service into a backend error.
// It must be deferred directly by the exported method.
func recoverBackend(log *zap.Logger, op string, err *error) {
	if r := recover(); r != nil {
		log.Error("backend panic recovered", zap.String("op", op), zap.Any("panic", r))
		*err = apperr.New(apperr.KindBackend, "unexpected backend failure in %s", op)
	}
}

// fromBackend maps a collaborator error, naming the missing document on ErrNotFound
func fromBackend(err error, what string) error {
	if errors.Is(err, backend.ErrNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Backend(err)
}
