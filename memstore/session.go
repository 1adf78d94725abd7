package memstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/dbfile"
	"github.com/arloliu/fameport/store"
)

// FileExt is the extension of persisted database files.
const FileExt = ".fdb"

// Session is an in-memory store session. It is safe for concurrent use.
//
// A database may be open by any number of readers or by one writer. Opening
// a database held by a writer, or opening for write a database held by
// anyone, fails with errs.ErrPermissionDenied.
type Session struct {
	Calendar

	cfg *Config

	mu      sync.Mutex
	dbs     map[string]*dbState
	readers map[string]int
	writers map[string]bool
}

var _ store.Session = (*Session)(nil)

// dbState is the content of one database shared by its handles.
type dbState struct {
	name    string
	objects map[string]*dbfile.Object
	order   []string
}

func newDBState(name string) *dbState {
	return &dbState{name: name, objects: make(map[string]*dbfile.Object)}
}

func (s *dbState) add(o *dbfile.Object) {
	if _, ok := s.objects[o.Info.Name]; !ok {
		s.order = append(s.order, o.Info.Name)
	}
	s.objects[o.Info.Name] = o
}

func (s *dbState) list() []*dbfile.Object {
	out := make([]*dbfile.Object, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.objects[name])
	}

	return out
}

// New creates a session.
//
// Parameters:
//   - opts: WithDir, WithCompression, WithClock, WithLogger
//
// Returns:
//   - *Session: The session
//   - error: Option validation error
func New(opts ...Option) (*Session, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Session{
		cfg:     cfg,
		dbs:     make(map[string]*dbState),
		readers: make(map[string]int),
		writers: make(map[string]bool),
	}, nil
}

func databaseKey(name string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: database %q", errs.ErrInvalidName, name)
	}

	return key, nil
}

// Path returns the file a database is persisted in, or "" when the session
// has no directory.
func (s *Session) Path(name string) string {
	key, err := databaseKey(name)
	if err != nil || s.cfg.dir == "" {
		return ""
	}

	return filepath.Join(s.cfg.dir, strings.ToLower(key)+FileExt)
}

// Open opens the named database.
//
// Returns errs.ErrNotFound when a database opened for read or update does not
// exist, errs.ErrDatabaseExists when a created database does, and
// errs.ErrPermissionDenied when the database is held by another handle.
func (s *Session) Open(name string, mode format.AccessMode) (store.Database, error) {
	key, err := databaseKey(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writable := mode == format.ModeCreate || mode == format.ModeUpdate
	if mode != format.ModeRead && !writable {
		return nil, fmt.Errorf("%w: access mode %d", errs.ErrInvalidValue, int32(mode))
	}
	if s.writers[key] || (writable && s.readers[key] > 0) {
		return nil, fmt.Errorf("%w: %s is in use", errs.ErrPermissionDenied, key)
	}

	state, err := s.lookup(key)
	switch {
	case mode == format.ModeCreate && err == nil:
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseExists, key)
	case mode == format.ModeCreate && errors.Is(err, errs.ErrNotFound):
		state = newDBState(key)
		s.dbs[key] = state
	case err != nil:
		return nil, err
	}

	if writable {
		s.writers[key] = true
	} else {
		s.readers[key]++
	}

	return &database{sess: s, state: state, mode: mode, dirty: mode == format.ModeCreate}, nil
}

// lookup returns a database from memory or loads it from the session
// directory. Callers hold s.mu.
func (s *Session) lookup(key string) (*dbState, error) {
	if state, ok := s.dbs[key]; ok {
		return state, nil
	}

	path := s.Path(key)
	if path == "" {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}

	state, err := loadFile(path, key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	s.cfg.logger.Debug("database loaded", "database", key, "path", path, "objects", len(state.order))
	s.dbs[key] = state

	return state, nil
}

// release ends a handle's hold on a database and saves it when it was
// changed through a writable handle.
func (s *Session) release(db *database) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := db.state.name
	if !db.writable() {
		s.readers[key]--
		if s.readers[key] <= 0 {
			delete(s.readers, key)
		}

		return nil
	}
	delete(s.writers, key)

	path := s.Path(key)
	if !db.dirty || path == "" {
		return nil
	}

	size, err := saveFile(path, db.state, s.cfg)
	if err != nil {
		return err
	}
	s.cfg.logger.Debug("database saved", "database", key, "path", path, "objects", len(db.state.order), "bytes", size)

	return nil
}

// Databases returns the names of the databases known to the session, loaded
// or not.
func (s *Session) Databases() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.dbs))
	names := make([]string, 0, len(s.dbs))
	for key := range s.dbs {
		seen[key] = struct{}{}
		names = append(names, key)
	}

	if s.cfg.dir != "" {
		entries, err := os.ReadDir(s.cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", s.cfg.dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != FileExt {
				continue
			}
			key := strings.ToUpper(strings.TrimSuffix(e.Name(), FileExt))
			if _, ok := seen[key]; !ok {
				names = append(names, key)
			}
		}
	}

	return names, nil
}
