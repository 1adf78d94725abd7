package memstore

import (
	"fmt"
	"os"

	"github.com/kjk/common/atomicfile"

	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/internal/dbfile"
	"github.com/arloliu/fameport/internal/options"
)

func loadFile(path, key string) (*dbState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	objects, _, err := dbfile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	state := newDBState(key)
	for _, o := range objects {
		state.add(o)
	}

	return state, nil
}

// saveFile writes the database through an atomic file, so a failed save
// leaves the previous file intact.
func saveFile(path string, state *dbState, cfg *Config) (int, error) {
	data, err := dbfile.Encode(state.list(),
		dbfile.WithCompression(cfg.compression),
		options.When(endian.IsBig(cfg.byteOrder), dbfile.WithBigEndian()),
	)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", state.name, err)
	}

	f, err := atomicfile.New(path)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	defer f.RemoveIfNotClosed()

	if _, err := f.Write(data); err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}

	return len(data), nil
}
