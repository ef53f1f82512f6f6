package repo

import (
	"context"

	"gorm.io/gorm"

	pkgdb "github.com/angelmondragon/bookaro-backend/pkg/db"
)

// Base is embedded by every domain repository. It carries either the pool
// or an open transaction, so WithTx on a repository is just NewBase(tx).
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Locked returns a query that takes row locks (SELECT ... FOR UPDATE) on
// whatever it reads. Only meaningful inside a transaction; sqlite ignores it.
func (b Base) Locked(ctx context.Context) *gorm.DB {
	return pkgdb.ForUpdate(b.DB(ctx))
}
