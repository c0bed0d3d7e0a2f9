package kv

import "fmt"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for backend at path along with a function that
// releases it.
func Open(backend, path string) (Store, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendFile, "":
		return NewFileStore(path), noop, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}
