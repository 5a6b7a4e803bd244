// Package retry reintenta operaciones remotas idempotentes con backoff exponencial.
//
// La espera empieza en Policy.InitialDelay y se multiplica por Policy.Multiplier en
// cada intento siguiente. Un error clasificado como no reintentable corta el ciclo
// de inmediato. El total de intentos nunca supera MaxRetries+1.
package retry

import (
	"context"
	"time"
)

// Valores por defecto de la política.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = time.Second
	DefaultMultiplier   = 2.0
)

// Policy describe cuántas veces y con qué espera se reintenta una operación.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64
	// IsRetryable decide si un error merece otro intento. nil = IsTransient.
	IsRetryable func(error) bool
	// OnRetry se invoca antes de cada espera (attempt empieza en 1).
	OnRetry func(attempt int, delay time.Duration, err error)
	// Sleep permite reemplazar la espera en tests. nil = temporizador real.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy devuelve la política estándar: 3 reintentos, 1s inicial, x2.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultMultiplier,
		IsRetryable:  IsTransient,
	}
}

// normalize corrige valores que romperían la monotonía de las esperas.
func (p Policy) normalize() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}
	if p.Multiplier <= 1 {
		p.Multiplier = DefaultMultiplier
	}
	if p.IsRetryable == nil {
		p.IsRetryable = IsTransient
	}
	if p.Sleep == nil {
		p.Sleep = sleep
	}
	return p
}

// Delays devuelve la secuencia de esperas que aplicaría la política si todos los
// intentos fallaran con un error reintentable.
func (p Policy) Delays() []time.Duration {
	p = p.normalize()
	out := make([]time.Duration, 0, p.MaxRetries)
	delay := p.InitialDelay
	for i := 0; i < p.MaxRetries; i++ {
		out = append(out, delay)
		delay = next(delay, p.Multiplier)
	}
	return out
}

// Do ejecuta op y la reintenta según la política. Devuelve el último error si se
// agotan los reintentos o si el error no es reintentable.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.normalize()

	var zero T
	delay := p.InitialDelay
	remaining := p.MaxRetries
	attempt := 0
	for {
		attempt++
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if remaining == 0 || !p.IsRetryable(err) {
			return zero, err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if serr := p.Sleep(ctx, delay); serr != nil {
			return zero, serr
		}
		remaining--
		delay = next(delay, p.Multiplier)
	}
}

// Run es Do para operaciones sin valor de retorno.
func Run(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func next(d time.Duration, m float64) time.Duration {
	n := time.Duration(float64(d) * m)
	if n <= d {
		// overflow o redondeo: se garantiza crecimiento estricto
		n = d + 1
	}
	return n
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
