package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

const documentFile = "users.json"

// documentStore keeps all records as one JSON array in a single file. List
// fields stay native JSON arrays. Writes go to a temp file in the same
// directory and are renamed over the target, so readers never see a torn file.
type documentStore struct {
	mu   sync.Mutex
	path string
}

func newDocumentStore(dataDir string) (*documentStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %q: %w", dataDir, err)
	}
	return &documentStore{path: filepath.Join(dataDir, documentFile)}, nil
}

func (s *documentStore) CreateUser(_ context.Context, u *profile.User) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}

	stored := *u
	stored.ID = strconv.Itoa(len(users) + 1)
	users = append(users, &stored)

	if err := s.save(users); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *documentStore) GetUser(_ context.Context, id string) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: id %q", ErrNotFound, id)
}

func (s *documentStore) GetAllUsers(_ context.Context) ([]*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *documentStore) load() ([]*profile.User, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*profile.User{}, nil
		}
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return []*profile.User{}, nil
	}

	var users []*profile.User
	if err := json.NewDecoder(file).Decode(&users); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return users, nil
}

func (s *documentStore) save(users []*profile.User) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "users_*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
