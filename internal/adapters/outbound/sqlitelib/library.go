// Package sqlitelib is a media library backed by a sqlite index of a local
// directory. "storyctl gallery index" fills it; the gallery source pages
// through it newest first.
package sqlitelib

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/sufield/storyline/internal/adapters/outbound/mediafs"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/ports"
)

// Library implements ports.MediaLibrary over sqlite.
type Library struct {
	db  *sql.DB
	log logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the index at path and migrates it.
func Open(ctx context.Context, path string, logger logrus.FieldLogger) (*Library, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open library index: %w", err)
	}
	// WAL allows the CLI to list while an index run writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure library index: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Library{db: db, log: logging.OrDiscard(logger).WithField("adapter", "sqlitelib")}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assets (
			uri TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			modified_at_unixms INTEGER NOT NULL,
			indexed_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS assets_modified ON assets(modified_at_unixms DESC, uri);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate library index: %w", err)
		}
	}
	return nil
}

// RequestPermission implements ports.MediaLibrary. Access is granted when
// the index is reachable.
func (l *Library) RequestPermission(ctx context.Context) (bool, error) {
	if err := l.guard(); err != nil {
		return false, err
	}
	if err := l.db.PingContext(ctx); err != nil {
		l.log.WithError(err).Warn("library index unreachable")
		return false, nil
	}
	return true, nil
}

// ListAssets implements ports.MediaLibrary.
func (l *Library) ListAssets(ctx context.Context, page, pageSize int, newestFirst bool) ([]ports.LibraryItem, error) {
	if err := l.guard(); err != nil {
		return nil, err
	}
	if page < 0 || pageSize <= 0 {
		return []ports.LibraryItem{}, nil
	}
	order := "modified_at_unixms ASC, uri ASC"
	if newestFirst {
		order = "modified_at_unixms DESC, uri ASC"
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT uri, kind, modified_at_unixms FROM assets ORDER BY `+order+` LIMIT ? OFFSET ?`,
		pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	items := make([]ports.LibraryItem, 0, pageSize)
	for rows.Next() {
		var (
			it   ports.LibraryItem
			kind string
			ms   int64
		)
		if err := rows.Scan(&it.URI, &kind, &ms); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		it.Kind = domain.MediaKind(kind)
		it.ModifiedAt = time.UnixMilli(ms).UTC()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return items, nil
}

// Put inserts or updates one asset.
func (l *Library) Put(ctx context.Context, item ports.LibraryItem, size int64) error {
	if err := l.guard(); err != nil {
		return err
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO assets (uri, kind, size_bytes, modified_at_unixms, indexed_at_unixms)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(uri) DO UPDATE SET
		   kind = excluded.kind,
		   size_bytes = excluded.size_bytes,
		   modified_at_unixms = excluded.modified_at_unixms,
		   indexed_at_unixms = excluded.indexed_at_unixms`,
		item.URI, string(item.Kind), size, item.ModifiedAt.UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put asset %s: %w", item.URI, err)
	}
	return nil
}

// Index walks dir and records every photo or video file. Files with other
// extensions are skipped. It returns the number of assets recorded.
func (l *Library) Index(ctx context.Context, dir string) (int, error) {
	if err := l.guard(); err != nil {
		return 0, err
	}
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		kind, ok := mediafs.KindFromName(d.Name())
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		uri, err := mediafs.URIFromPath(path)
		if err != nil {
			return err
		}
		item := ports.LibraryItem{URI: uri, Kind: kind, ModifiedAt: info.ModTime()}
		if err := l.Put(ctx, item, info.Size()); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("index %s: %w", dir, err)
	}
	l.log.WithFields(logrus.Fields{"dir": dir, "assets": count}).Info("library indexed")
	return count, nil
}

// Count returns the number of indexed assets.
func (l *Library) Count(ctx context.Context) (int, error) {
	if err := l.guard(); err != nil {
		return 0, err
	}
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}

// Close closes the index. Later calls return ports.ErrLibraryClosed.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}

func (l *Library) guard() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ports.ErrLibraryClosed
	}
	return nil
}

var _ ports.MediaLibrary = (*Library)(nil)

// IsClosed reports whether err came from a closed library.
func IsClosed(err error) bool {
	return errors.Is(err, ports.ErrLibraryClosed)
}
