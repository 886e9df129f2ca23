package models

import (
	"strings"
	"testing"
	"time"
)

func TestBookCreateRequest_Validate(t *testing.T) {
	published := time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     BookCreateRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid book",
			req: BookCreateRequest{
				Title:           "Dune",
				Price:           1299,
				PublicationDate: published,
				ISBN:            "978-0441013593",
			},
			wantErr: false,
		},
		{
			name: "valid book without isbn",
			req: BookCreateRequest{
				Title:           "Dune",
				Price:           1299,
				PublicationDate: published,
			},
			wantErr: false,
		},
		{
			name: "missing title",
			req: BookCreateRequest{
				Title:           "   ",
				Price:           1299,
				PublicationDate: published,
			},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name: "title too long",
			req: BookCreateRequest{
				Title:           strings.Repeat("x", 256),
				Price:           1299,
				PublicationDate: published,
			},
			wantErr: true,
			errMsg:  "title must be less than 255 characters",
		},
		{
			name: "negative price",
			req: BookCreateRequest{
				Title:           "Dune",
				Price:           -1,
				PublicationDate: published,
			},
			wantErr: true,
			errMsg:  "price cannot be negative",
		},
		{
			name: "price too high",
			req: BookCreateRequest{
				Title:           "Dune",
				Price:           1000001,
				PublicationDate: published,
			},
			wantErr: true,
			errMsg:  "price cannot exceed $10,000",
		},
		{
			name: "missing publication date",
			req: BookCreateRequest{
				Title: "Dune",
				Price: 1299,
			},
			wantErr: true,
			errMsg:  "publication date is required",
		},
		{
			name: "bad isbn",
			req: BookCreateRequest{
				Title:           "Dune",
				Price:           1299,
				PublicationDate: published,
				ISBN:            "not-an-isbn",
			},
			wantErr: true,
			errMsg:  "isbn format is invalid",
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

func TestBook_PriceAmount(t *testing.T) {
	book := &Book{Price: 1299}
	if got := book.PriceAmount(); got != 12.99 {
		t.Errorf("expected 12.99, got %v", got)
	}
}

func TestBook_IsCheckoutEligible(t *testing.T) {
	if (&Book{Price: 0}).IsCheckoutEligible() {
		t.Error("free book should not be checkout eligible")
	}
	if !(&Book{Price: 1}).IsCheckoutEligible() {
		t.Error("priced book should be checkout eligible")
	}
}

func TestBookUpdateRequest_Validate(t *testing.T) {
	badTitle := " "
	goodPrice := 500
	badPrice := -5

	if err := (&BookUpdateRequest{}).Validate(); err != nil {
		t.Errorf("empty update should be valid, got %v", err)
	}
	if err := (&BookUpdateRequest{Price: &goodPrice}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&BookUpdateRequest{Title: &badTitle}).Validate(); err == nil {
		t.Error("expected error for blank title")
	}
	if err := (&BookUpdateRequest{Price: &badPrice}).Validate(); err == nil {
		t.Error("expected error for negative price")
	}
}
