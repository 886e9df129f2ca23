package models

import (
	"regexp"
	"testing"
)

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid order",
			order: Order{
				OrderNumber:    "ORD-20240101-123456",
				TotalPrice:     2298,
				PaymentOrderID: "5O190127TN364715T",
			},
			wantErr: false,
		},
		{
			name: "missing order number",
			order: Order{
				TotalPrice:     2298,
				PaymentOrderID: "5O190127TN364715T",
			},
			wantErr: true,
			errMsg:  "order number is required",
		},
		{
			name: "bad order number format",
			order: Order{
				OrderNumber:    "INVALID-123",
				TotalPrice:     2298,
				PaymentOrderID: "5O190127TN364715T",
			},
			wantErr: true,
			errMsg:  "order number format is invalid",
		},
		{
			name: "negative total",
			order: Order{
				OrderNumber:    "ORD-20240101-123456",
				TotalPrice:     -1,
				PaymentOrderID: "5O190127TN364715T",
			},
			wantErr: true,
			errMsg:  "total price cannot be negative",
		},
		{
			name: "missing payment order id",
			order: Order{
				OrderNumber: "ORD-20240101-123456",
				TotalPrice:  2298,
			},
			wantErr: true,
			errMsg:  "payment order id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
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

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()
		if !pattern.MatchString(number) {
			t.Fatalf("order number %q does not match expected format", number)
		}
		seen[number] = true
	}

	// 100 draws from a million values colliding down to a handful would
	// indicate a broken generator.
	if len(seen) < 90 {
		t.Errorf("expected mostly unique order numbers, got %d unique of 100", len(seen))
	}
}

func TestOrder_TotalPriceAmount(t *testing.T) {
	order := &Order{TotalPrice: 2298}
	if got := order.TotalPriceAmount(); got != 22.98 {
		t.Errorf("expected 22.98, got %v", got)
	}
}
