package profile

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name: "valid",
			user: User{Name: "Alice", Age: 29, Gender: "Female", Bio: "I like hiking."},
		},
		{
			name:    "missing name",
			user:    User{Age: 29, Bio: "I like hiking."},
			wantErr: true,
		},
		{
			name:    "underage",
			user:    User{Name: "Bob", Age: 17, Bio: "I like hiking."},
			wantErr: true,
		},
		{
			name:    "blank bio",
			user:    User{Name: "Bob", Age: 30, Bio: "   "},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
