package storage

import (
	"path"
	"strings"

	"github.com/rs/xid"
)

// newID is swapped in tests for deterministic keys.
var newID = func() string { return xid.New().String() }

// SuffixKey inserts a unique id before the extension of the last path
// element: "results/data.csv" becomes "results/data-<id>.csv".
func SuffixKey(key string) string {
	dir, file := path.Split(key)
	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)
	if base == "" {
		// dotfiles like ".env" have no stem; keep the name whole
		base, ext = file, ""
	}
	return dir + base + "-" + newID() + ext
}

// resolveKey applies the options that change the final object key.
func resolveKey(key string, opts PutOptions) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	if opts.AddRandomSuffix {
		return SuffixKey(key), nil
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
