// Package store persists user profiles behind one of three interchangeable
// backends: a JSON document file, a CSV file, or a remote Google spreadsheet.
// The backend is chosen once at construction; callers never branch on it.
//
// Ids are assigned as "count of existing records + 1" and are guarded by a
// per-store mutex, so they are sequential and unique for all writers within
// one process. Two separate processes sharing a backing file can still race
// on assignment; this store makes no cross-process guarantee.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

// Backend tags accepted by New.
const (
	BackendDocument    = "document"
	BackendTabular     = "tabular"
	BackendSpreadsheet = "remote-spreadsheet"
)

var (
	// ErrNotFound is returned by GetUser when no record has the given id.
	ErrNotFound = errors.New("user not found")
	// ErrUnsupportedBackend is returned by New for an unknown backend tag.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

// Store is the persistence contract for user profiles.
type Store interface {
	// CreateUser assigns the next sequential id, persists the record and
	// returns it with the id filled in.
	CreateUser(ctx context.Context, u *profile.User) (*profile.User, error)
	// GetUser returns the record whose id matches, or ErrNotFound.
	GetUser(ctx context.Context, id string) (*profile.User, error)
	// GetAllUsers returns every stored record in insertion order. A backing
	// file that does not exist yet yields an empty slice, not an error.
	GetAllUsers(ctx context.Context) ([]*profile.User, error)
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data-dir"`

	// Spreadsheet settings, required only for the remote-spreadsheet backend.
	SpreadsheetID   string `mapstructure:"spreadsheet-id"`
	CredentialsFile string `mapstructure:"credentials-file"`
}

// New constructs the backend named by cfg.Backend. Configuration problems
// (unknown tag, spreadsheet backend without credentials) fail here, before
// the server starts serving.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	switch cfg.Backend {
	case BackendDocument, "":
		return newDocumentStore(dataDir)
	case BackendTabular:
		return newTabularStore(dataDir)
	case BackendSpreadsheet:
		return newSheetsStore(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
}

// header is the column order shared by the tabular and spreadsheet backends.
var header = []string{
	"id", "name", "age", "gender", "bio",
	"personality_traits", "interests", "values", "looking_for",
}
