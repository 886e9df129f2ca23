package models

import (
	"strings"
	"testing"
)

func TestUserCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     UserCreateRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			req:     UserCreateRequest{Username: "frank.h", Email: "frank@example.com", Password: "valid-password-123"},
			wantErr: false,
		},
		{
			name:    "valid request without email",
			req:     UserCreateRequest{Username: "frank.h", Password: "valid-password-123"},
			wantErr: false,
		},
		{
			name:    "username too short",
			req:     UserCreateRequest{Username: "ab", Password: "valid-password-123"},
			wantErr: true,
			errMsg:  "username must be between 5 and 20 characters",
		},
		{
			name:    "username too long",
			req:     UserCreateRequest{Username: strings.Repeat("a", 21), Password: "valid-password-123"},
			wantErr: true,
			errMsg:  "username must be between 5 and 20 characters",
		},
		{
			name:    "username with invalid characters",
			req:     UserCreateRequest{Username: "frank h!", Password: "valid-password-123"},
			wantErr: true,
			errMsg:  "username contains invalid characters",
		},
		{
			name:    "empty username",
			req:     UserCreateRequest{Password: "valid-password-123"},
			wantErr: true,
			errMsg:  "username is required",
		},
		{
			name:    "invalid email",
			req:     UserCreateRequest{Username: "frank.h", Email: "not-an-email", Password: "valid-password-123"},
			wantErr: true,
			errMsg:  "email format is invalid",
		},
		{
			name:    "password too short",
			req:     UserCreateRequest{Username: "frank.h", Password: "short"},
			wantErr: true,
			errMsg:  "password must be at least 8 characters long",
		},
		{
			name:    "missing password",
			req:     UserCreateRequest{Username: "frank.h"},
			wantErr: true,
			errMsg:  "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if tt.errMsg != "" && err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUser_CanLogin(t *testing.T) {
	if !(&User{IsActive: true}).CanLogin() {
		t.Error("active user should be able to log in")
	}
	if (&User{IsActive: false}).CanLogin() {
		t.Error("inactive user should not be able to log in")
	}
}
