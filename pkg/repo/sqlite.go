package repo

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/portforge/archplan/pkg/errors"
)

// LoadSQLite bulk-loads a metadata snapshot from a pre-populated SQLite
// database into an in-memory index. The database is opened read-only and
// closed before returning; all planner queries run against memory.
//
// Expected schema:
//
//	CREATE TABLE packages (
//	    cpv      TEXT PRIMARY KEY,
//	    keywords TEXT NOT NULL DEFAULT '',
//	    slot     TEXT NOT NULL DEFAULT '0',
//	    depend   TEXT NOT NULL DEFAULT '',
//	    rdepend  TEXT NOT NULL DEFAULT '',
//	    pdepend  TEXT NOT NULL DEFAULT '',
//	    masked   INTEGER NOT NULL DEFAULT 0
//	);
func LoadSQLite(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open metadata db")
	}

	// modernc.org/sqlite understands URI parameters in a "file:" DSN.
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "ro")
	q.Set("_busy_timeout", "5000")
	u.RawQuery = q.Encode()

	db, err := sql.Open("sqlite", u.String())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRepo, err, "open sqlite %s", path)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRepo, err, "ping sqlite %s", path)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT cpv, keywords, slot, depend, rdepend, pdepend, masked FROM packages`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRepo, err, "query packages in %s", path)
	}
	defer rows.Close()

	idx := NewIndex()
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.CPV, &p.Keywords, &p.Slot, &p.Depend, &p.Rdepend, &p.Pdepend, &p.Masked); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRepo, err, "scan package row in %s", path)
		}
		if err := idx.Add(p); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRepo, err, "read packages from %s", path)
	}
	return idx, nil
}
