package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db        *gorm.DB
	dimension int
}

// NewRepositoryFactory hands out units of work over db. dimension is the
// embedding length enforced by the vector record repository.
func NewRepositoryFactory(db *gorm.DB, dimension int) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db:        db,
		dimension: dimension,
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db, f.dimension)
}
