package service

import "context"

// TransactionManager runs a function inside a database transaction. Repository
// calls made with the context passed to fn join the same transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
