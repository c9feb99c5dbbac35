package redis

import (
	"context"
	"strings"

	"github.com/kailas-cloud/esdex/internal/db"
)

// scanCount is the SCAN page size hint.
const scanCount = 500

// ScanPrefix iterates keys starting with prefix.
func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(prefix) + "*"

	var keys []string
	var cursor uint64
	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes MATCH metacharacters so prefix is matched literally.
func escapeGlob(prefix string) string {
	return globEscaper.Replace(prefix)
}
