package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/skillshare/internal/dbx"
)

// ErrCacheCorrupt is returned by Load when the stored value cannot be
// turned back into a user.
var ErrCacheCorrupt = errors.New("session cache corrupt")

// Cache persists the last verified user across runs. Load returns (nil, nil)
// when nothing is stored.
type Cache interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
}

const (
	keyUser    = "user"
	keySavedAt = "user_saved_at"
)

// SQLiteCache keeps the user as JSON in the metadata table.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteCache(db *sql.DB) *SQLiteCache {
	return &SQLiteCache{db: db, now: time.Now}
}

func (c *SQLiteCache) Load(ctx context.Context) (*models.User, error) {
	data, err := metadata.NewSQLiteRepository(c.db).Get(ctx, keyUser)
	if errors.Is(err, metadata.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	if !u.Valid() {
		return nil, fmt.Errorf("%w: no identity in stored user", ErrCacheCorrupt)
	}
	return &u, nil
}

// Save stores u together with the time it was saved.
func (c *SQLiteCache) Save(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	savedAt := c.now().UTC().Format(time.RFC3339Nano)

	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyUser, data); err != nil {
			return err
		}
		return repo.Set(ctx, keySavedAt, []byte(savedAt))
	})
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(c.db).Delete(ctx, keyUser, keySavedAt)
}

// SavedAt reports when the cached user was written. ok is false when the
// cache is empty.
func (c *SQLiteCache) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	data, err := metadata.NewSQLiteRepository(c.db).Get(ctx, keySavedAt)
	if errors.Is(err, metadata.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	return t, true, nil
}
