package txn

import "context"

// Runner ejecuta fn de forma atómica. Los repos toman la tx del ctx que recibe fn,
// así que todo lo que se haga con ese ctx queda en la misma transacción.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunnerFunc adapta una función (útil en tests con repos fake).
type RunnerFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f RunnerFunc) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// Direct no abre transacción: corre fn tal cual.
var Direct Runner = RunnerFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})
