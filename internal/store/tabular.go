package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

const tabularFile = "users.csv"

// tabularStore keeps records as CSV rows under a fixed header. List-valued
// columns hold JSON-encoded text and are decoded back on read. A corrupt list
// cell fails the whole read: a damaged file is an operator problem and must
// surface, not shrink the result set.
type tabularStore struct {
	mu   sync.Mutex
	path string
}

func newTabularStore(dataDir string) (*tabularStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %q: %w", dataDir, err)
	}
	return &tabularStore{path: filepath.Join(dataDir, tabularFile)}, nil
}

func (s *tabularStore) CreateUser(_ context.Context, u *profile.User) (*profile.User, error) {
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

func (s *tabularStore) GetUser(_ context.Context, id string) (*profile.User, error) {
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

func (s *tabularStore) GetAllUsers(_ context.Context) ([]*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *tabularStore) load() ([]*profile.User, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*profile.User{}, nil
		}
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(rows) <= 1 {
		// Header only, or empty file.
		return []*profile.User{}, nil
	}

	users := make([]*profile.User, 0, len(rows)-1)
	for _, row := range rows[1:] {
		u, err := userFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", s.path, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *tabularStore) save(users []*profile.User) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "users_*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	for _, u := range users {
		row, err := rowFromUser(u)
		if err != nil {
			tmp.Close()
			return err
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// rowFromUser serializes a record into the shared column order, JSON-encoding
// the list fields.
func rowFromUser(u *profile.User) ([]string, error) {
	traits, err := encodeList(u.PersonalityTraits)
	if err != nil {
		return nil, err
	}
	interests, err := encodeList(u.Interests)
	if err != nil {
		return nil, err
	}
	values, err := encodeList(u.Values)
	if err != nil {
		return nil, err
	}

	return []string{
		u.ID,
		u.Name,
		strconv.Itoa(u.Age),
		u.Gender,
		u.Bio,
		traits,
		interests,
		values,
		u.LookingFor,
	}, nil
}

func userFromRow(row []string) (*profile.User, error) {
	if len(row) != len(header) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	age, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, fmt.Errorf("age column: %w", err)
	}

	traits, err := decodeList(row[5])
	if err != nil {
		return nil, fmt.Errorf("personality_traits column: %w", err)
	}
	interests, err := decodeList(row[6])
	if err != nil {
		return nil, fmt.Errorf("interests column: %w", err)
	}
	values, err := decodeList(row[7])
	if err != nil {
		return nil, fmt.Errorf("values column: %w", err)
	}

	return &profile.User{
		ID:                row[0],
		Name:              row[1],
		Age:               age,
		Gender:            row[3],
		Bio:               row[4],
		PersonalityTraits: traits,
		Interests:         interests,
		Values:            values,
		LookingFor:        row[8],
	}, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(cell string) ([]string, error) {
	if cell == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(cell), &items); err != nil {
		return nil, err
	}
	return items, nil
}
