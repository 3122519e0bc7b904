package repository

import (
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// unitOfWorkFactory implements the UnitOfWorkFactory interface.
type unitOfWorkFactory struct {
	db *gorm.DB
}

// NewUnitOfWorkFactory creates a factory producing one unit of work per
// operation.
func NewUnitOfWorkFactory(db *gorm.DB) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// New creates a fresh unit of work.
func (f *unitOfWorkFactory) New() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// unitOfWork implements the UnitOfWork interface. It holds one open
// transaction and hands out repositories bound to it.
type unitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a new transaction.
func (u *unitOfWork) Begin() error {
	if u.tx != nil {
		return errors.NewInternalError("transaction already started", nil)
	}

	tx := u.db.Begin()
	if tx.Error != nil {
		return errors.NewInternalError("failed to begin transaction", tx.Error)
	}

	u.tx = tx
	return nil
}

// Jobs returns the job repository bound to the transaction.
func (u *unitOfWork) Jobs() interfaces.JobRepository {
	return NewJobRepository(u.handle())
}

// JobRequests returns the job request repository bound to the transaction.
func (u *unitOfWork) JobRequests() interfaces.JobRequestRepository {
	return NewJobRequestRepository(u.handle())
}

// Audits returns the audit repository bound to the transaction.
func (u *unitOfWork) Audits() interfaces.AuditRepository {
	return NewAuditRepository(u.handle())
}

// Commit commits the transaction.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return errors.NewInternalError("no transaction to commit", nil)
	}

	err := u.tx.Commit().Error
	u.tx = nil
	if err != nil {
		return errors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back the transaction.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback().Error
	u.tx = nil
	if err != nil {
		return errors.NewInternalError("failed to rollback transaction", err)
	}
	return nil
}

func (u *unitOfWork) handle() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
