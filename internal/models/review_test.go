package models

import (
	"strings"
	"testing"
)

func TestReviewCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ReviewCreateRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid review",
			req:     ReviewCreateRequest{Rating: 5, Comment: "Excellent"},
			wantErr: false,
		},
		{
			name:    "zero rating allowed",
			req:     ReviewCreateRequest{Rating: 0, Comment: "Terrible"},
			wantErr: false,
		},
		{
			name:    "rating too high",
			req:     ReviewCreateRequest{Rating: 6, Comment: "Excellent"},
			wantErr: true,
			errMsg:  "rating must be between 0 and 5",
		},
		{
			name:    "negative rating",
			req:     ReviewCreateRequest{Rating: -1, Comment: "Excellent"},
			wantErr: true,
			errMsg:  "rating must be between 0 and 5",
		},
		{
			name:    "blank comment",
			req:     ReviewCreateRequest{Rating: 3, Comment: "   "},
			wantErr: true,
			errMsg:  "comment is required",
		},
		{
			name:    "comment too long",
			req:     ReviewCreateRequest{Rating: 3, Comment: strings.Repeat("x", 2001)},
			wantErr: true,
			errMsg:  "comment must be less than 2000 characters",
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
