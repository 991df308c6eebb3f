// Package cookiestore reads cookies out of a local browser profile. It is
// meant for local tooling only.
package cookiestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

// ErrNoProfile means no Firefox cookie database could be found.
var ErrNoProfile = errors.New("cookiestore: no firefox cookie database found")

// Firefox reads the moz_cookies table of a Firefox profile.
type Firefox struct {
	path string
}

func NewFirefox(path string) Firefox {
	return Firefox{path: path}
}

// FindFirefox locates the cookie database of the default Firefox profile
// under home, the most recently modified one wins when there are several.
func FindFirefox(home string) (Firefox, error) {
	var candidates []string
	for _, pattern := range []string{
		filepath.Join(home, ".mozilla", "firefox", "*.default*", "cookies.sqlite"),
		filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles", "*.default*", "cookies.sqlite"),
		filepath.Join(home, "AppData", "Roaming", "Mozilla", "Firefox", "Profiles", "*.default*", "cookies.sqlite"),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return Firefox{}, err
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return Firefox{}, ErrNoProfile
	}

	sort.Slice(candidates, func(i, j int) bool {
		return modTime(candidates[i]) > modTime(candidates[j])
	})
	return NewFirefox(candidates[0]), nil
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

func (f Firefox) Path() string {
	return f.path
}

// Cookies returns the cookies stored for domain and its dot-prefixed form,
// oldest first. The database is read from a private copy because a running
// Firefox keeps it locked.
func (f Firefox) Cookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	dir, err := os.MkdirTemp("", "towerassist-cookies-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	copied := filepath.Join(dir, "cookies.sqlite")
	err = copyFile(f.path, copied)
	if err != nil {
		return nil, fmt.Errorf("copy cookie database: %w", err)
	}
	// uncheckpointed writes live in the wal file
	err = copyFile(f.path+"-wal", copied+"-wal")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("copy cookie database wal: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+copied)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(
		ctx,
		`select name, value, host, path from moz_cookies
		where host = ? or host = ?
		order by creationTime asc`,
		domain, "."+domain,
	)
	if err != nil {
		return nil, fmt.Errorf("query moz_cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*http.Cookie
	for rows.Next() {
		c := &http.Cookie{}
		err = rows.Scan(&c.Name, &c.Value, &c.Domain, &c.Path)
		if err != nil {
			return nil, err
		}
		cookies = append(cookies, c)
	}
	return cookies, rows.Err()
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
