package storage

import (
	"fmt"
	"log/slog"
	"strings"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
)

// Open builds the configured backend. The returned close func is never nil.
func Open(backend Backend, path string, logger *slog.Logger) (Store, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("storage: empty path for %s backend", backend)
	}
	switch backend {
	case BackendSQLite, "":
		s, err := OpenSQLite(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendFile:
		return NewFileStore(path, logger), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
