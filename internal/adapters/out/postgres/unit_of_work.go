// Package postgres provides the GORM-backed order store: a Unit of Work over
// database transactions plus schema migration and connection helpers.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	repo := uow.OrderRepository()
//	o, err := repo.Get(ctx, id) // SELECT ... FOR UPDATE
//	if err != nil {
//	    return err
//	}
//	// mutate o, then repo.Update(ctx, o)
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance owns one transaction; use one per goroutine.
package postgres

import (
	"context"

	"emojiorder/internal/adapters/out/postgres/orderrepo"
	"emojiorder/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork wraps a single database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a transaction. Calling it again while one is active is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return err
	}
	uow.tx = tx
	return nil
}

// Commit and Rollback return gorm.ErrInvalidTransaction if no transaction
// is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	return uow.finish((*gorm.DB).Commit)
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	return uow.finish((*gorm.DB).Rollback)
}

func (uow *GormUnitOfWork) finish(end func(*gorm.DB) *gorm.DB) error {
	tx := uow.tx
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	uow.tx = nil
	return end(tx).Error
}

// OrderRepository returns a repository bound to the active transaction, or
// to the pool when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	if uow.tx != nil {
		return orderrepo.NewGormOrderRepository(uow.tx)
	}
	return orderrepo.NewGormOrderReader(uow.db)
}
