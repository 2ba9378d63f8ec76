package user

import (
	"errors"
	"testing"

	"github.com/liskovpm/scrum-service/internal/domain"
)

func TestUser_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{
			name:     "simple handle passes",
			username: "alice",
			wantErr:  false,
		},
		{
			name:     "handle with digits passes",
			username: "bob42",
			wantErr:  false,
		},
		{
			name:     "empty username fails",
			username: "",
			wantErr:  true,
		},
		{
			name:     "whitespace-only username fails",
			username: "   ",
			wantErr:  true,
		},
		{
			name:     "embedded space fails",
			username: "alice smith",
			wantErr:  true,
		},
		{
			name:     "embedded tab fails",
			username: "alice\tsmith",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := User{ID: 1, Username: tt.username}
			err := u.Validate()

			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
			}
			if _, ok := verr.Fields["username"]; !ok {
				t.Errorf("ValidationError.Fields missing key %q, got %v", "username", verr.Fields)
			}
		})
	}
}

func TestUser_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "first and last",
			user: User{Username: "alice", FirstName: "Alice", LastName: "Liddell"},
			want: "Alice Liddell",
		},
		{
			name: "first only",
			user: User{Username: "alice", FirstName: "Alice"},
			want: "Alice",
		},
		{
			name: "last only",
			user: User{Username: "alice", LastName: "Liddell"},
			want: "Liddell",
		},
		{
			name: "falls back to username",
			user: User{Username: "alice"},
			want: "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.user.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}
