package cmd

import (
	"github.com/spf13/pflag"

	"github.com/trinitylake-io/trinitylake-go/storage"
	"github.com/trinitylake-io/trinitylake-go/storage/badgerstore"
	"github.com/trinitylake-io/trinitylake-go/storage/memstore"
)

type storageFlags struct {
	backend   string
	badgerDir string
}

func addStorageFlags(fs *pflag.FlagSet, f *storageFlags) {
	fs.StringVar(&f.backend, "storage", "memory", "storage backend to use (memory, badger)")
	fs.StringVar(&f.badgerDir, "badger-dir", "", "directory for the badger storage backend (required when --storage=badger)")
}

// open returns a storage.Store for the selected backend and a closer
// that must be called once the command is done with it. The closer is
// a no-op for backends that own no resources.
func (f *storageFlags) open() (storage.Store, func() error, error) {
	switch f.backend {
	case "memory", "":
		return memstore.New(), func() error { return nil }, nil
	case "badger":
		s, err := badgerstore.Open(badgerstore.Options{Dir: f.badgerDir})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, errUnknownBackend(f.backend)
	}
}

type unknownBackendError string

func (e unknownBackendError) Error() string {
	return "unknown storage backend: " + string(e)
}

func errUnknownBackend(name string) error {
	return unknownBackendError(name)
}
