package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// Class agrupa los errores según si vale la pena reintentarlos.
type Class int

const (
	ClassTerminal Class = iota
	ClassNetwork
	ClassConflict
)

func (c Class) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassConflict:
		return "conflict"
	default:
		return "terminal"
	}
}

// Códigos SQLSTATE de conflictos transitorios (serialización, deadlock, lock ocupado).
var conflictCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

// ErrTransient marca errores que el llamador sabe transitorios.
var ErrTransient = errors.New("error transitorio")

// Classify clasifica err según la taxonomía de reintentos.
func Classify(err error) Class {
	if err == nil {
		return ClassTerminal
	}
	if errors.Is(err, context.Canceled) {
		return ClassTerminal
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := conflictCodes[pgErr.Code]; ok {
			return ClassConflict
		}
		return ClassTerminal
	}

	if errors.Is(err, ErrTransient) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return ClassNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassNetwork
	}
	if pgconn.SafeToRetry(err) {
		return ClassNetwork
	}
	return ClassTerminal
}

// IsTransient es el clasificador por defecto: red y conflictos de DB se reintentan.
func IsTransient(err error) bool {
	return Classify(err) != ClassTerminal
}
