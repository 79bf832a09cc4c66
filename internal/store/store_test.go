package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

func sampleUser(name string) *profile.User {
	return &profile.User{
		Name:              name,
		Age:               28,
		Gender:            "Female",
		Bio:               "Avid climber, amateur cook, always planning the next trip.",
		PersonalityTraits: []string{"adventurous", "curious", "warm", "driven", "funny"},
		Interests:         []string{"climbing", "cooking", "travel", "film", "running"},
		Values:            []string{"honesty", "growth", "kindness"},
		LookingFor:        "Someone who laughs easily and likes being outdoors.",
	}
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	doc, err := New(ctx, Config{Backend: BackendDocument, DataDir: dir}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &documentStore{}, doc)

	// Empty tag defaults to the document backend.
	def, err := New(ctx, Config{DataDir: dir}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &documentStore{}, def)

	tab, err := New(ctx, Config{Backend: BackendTabular, DataDir: dir}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &tabularStore{}, tab)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Config{Backend: "mongodb"}, zap.NewNop())
	require.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestNewSpreadsheetRequiresConfiguration(t *testing.T) {
	_, err := New(context.Background(), Config{Backend: BackendSpreadsheet}, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "credentials file")

	_, err = New(context.Background(), Config{
		Backend:         BackendSpreadsheet,
		CredentialsFile: "creds.json",
	}, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "spreadsheet id")
}

// The two file backends share one behavioral contract; run it against both.
func fileBackends(t *testing.T) map[string]Store {
	t.Helper()

	doc, err := newDocumentStore(t.TempDir())
	require.NoError(t, err)
	tab, err := newTabularStore(t.TempDir())
	require.NoError(t, err)

	return map[string]Store{"document": doc, "tabular": tab}
}

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range fileBackends(t) {
		t.Run(name, func(t *testing.T) {
			for i, want := range []string{"1", "2", "3"} {
				created, err := s.CreateUser(ctx, sampleUser("User"+want))
				require.NoError(t, err)
				require.Equal(t, want, created.ID, "user %d", i+1)
			}
		})
	}
}

func TestRoundTripPreservesListFields(t *testing.T) {
	ctx := context.Background()
	for name, s := range fileBackends(t) {
		t.Run(name, func(t *testing.T) {
			in := sampleUser("Alice")
			created, err := s.CreateUser(ctx, in)
			require.NoError(t, err)

			all, err := s.GetAllUsers(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)

			got := all[0]
			require.Equal(t, created.ID, got.ID)
			require.Equal(t, in.PersonalityTraits, got.PersonalityTraits)
			require.Equal(t, in.Interests, got.Interests)
			require.Equal(t, in.Values, got.Values)
			require.Equal(t, in.Age, got.Age)
			require.Equal(t, in.LookingFor, got.LookingFor)
		})
	}
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	for name, s := range fileBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, sampleUser("Alice"))
			require.NoError(t, err)
			second, err := s.CreateUser(ctx, sampleUser("Bob"))
			require.NoError(t, err)

			got, err := s.GetUser(ctx, second.ID)
			require.NoError(t, err)
			require.Equal(t, "Bob", got.Name)

			_, err = s.GetUser(ctx, "99")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGetAllUsersEmptyStore(t *testing.T) {
	ctx := context.Background()
	for name, s := range fileBackends(t) {
		t.Run(name, func(t *testing.T) {
			all, err := s.GetAllUsers(ctx)
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}
