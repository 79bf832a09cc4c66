package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

// The first sheet of the shared "DatingMatchmakerUsers" spreadsheet.
const sheetsRange = "A:I"

// sheetsStore appends one row per user to a remote Google spreadsheet. Unlike
// the file backends a create is a single append call, not a full rewrite.
//
// Decode policy: a row whose list cells are not valid JSON is skipped with a
// warning instead of failing the read. A spreadsheet is hand-editable; one
// damaged cell must not take the whole match list down.
type sheetsStore struct {
	mu            sync.Mutex
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

func newSheetsStore(ctx context.Context, cfg Config, logger *zap.Logger) (*sheetsStore, error) {
	creds := strings.TrimSpace(cfg.CredentialsFile)
	if creds == "" {
		return nil, fmt.Errorf("remote-spreadsheet backend: credentials file is not configured")
	}
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, fmt.Errorf("remote-spreadsheet backend: spreadsheet id is not configured")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	return &sheetsStore{svc: svc, spreadsheetID: id, logger: logger}, nil
}

func (s *sheetsStore) CreateUser(ctx context.Context, u *profile.User) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		if err := s.appendRow(ctx, toAnyRow(header)); err != nil {
			return nil, fmt.Errorf("writing header row: %w", err)
		}
	}

	stored := *u
	stored.ID = strconv.Itoa(countRecords(rows))

	row, err := rowFromUser(&stored)
	if err != nil {
		return nil, err
	}
	if err := s.appendRow(ctx, toAnyRow(row)); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *sheetsStore) GetUser(ctx context.Context, id string) (*profile.User, error) {
	users, err := s.GetAllUsers(ctx)
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

func (s *sheetsStore) GetAllUsers(ctx context.Context) ([]*profile.User, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return []*profile.User{}, nil
	}

	cols := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		cols = append(cols, strings.TrimSpace(fmt.Sprint(cell)))
	}

	users := make([]*profile.User, 0, len(rows)-1)
	for i, row := range rows[1:] {
		u, err := s.decodeRow(cols, row)
		if err != nil {
			s.logger.Warn("skipping malformed spreadsheet row",
				zap.Int("row", i+2),
				zap.Error(err),
			)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *sheetsStore) fetchRows(ctx context.Context) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet %s: %w", s.spreadsheetID, err)
	}
	return resp.Values, nil
}

func (s *sheetsStore) appendRow(ctx context.Context, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetsRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to spreadsheet %s: %w", s.spreadsheetID, err)
	}
	return nil
}

// decodeRow zips the header row with one data row, decodes the JSON list
// cells and maps the result onto a User. WeaklyTypedInput covers the age
// column arriving as a string cell.
func (s *sheetsStore) decodeRow(cols []string, row []any) (*profile.User, error) {
	record := make(map[string]any, len(cols))
	for i, col := range cols {
		if i >= len(row) {
			record[col] = ""
			continue
		}
		record[col] = row[i]
	}

	for _, col := range []string{"personality_traits", "interests", "values"} {
		cell, _ := record[col].(string)
		items, err := decodeList(cell)
		if err != nil {
			return nil, fmt.Errorf("%s column: %w", col, err)
		}
		record[col] = items
	}

	var u profile.User
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &u,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(record); err != nil {
		return nil, err
	}
	return &u, nil
}

// countRecords returns count+1 formatted upstream; the header row does not
// count as a record.
func countRecords(rows [][]any) int {
	if len(rows) == 0 {
		return 1
	}
	return len(rows)
}

func toAnyRow(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
