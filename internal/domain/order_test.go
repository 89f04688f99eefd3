package domain

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validOrder() Order {
	now := time.Now().UTC()
	price := decimal.RequireFromString("999.99")
	return Order{
		ID:          1,
		OrderNumber: "ORD-0A1B2C3D",
		Username:    "alice",
		ProductName: "Laptop",
		Quantity:    1,
		UnitPrice:   price,
		TotalAmount: price,
		Status:      OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestValidateInvariants_Valid(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestValidateInvariants_CollectsViolations(t *testing.T) {
	order := validOrder()
	order.Username = ""
	order.ProductName = ""
	order.Quantity = 0
	order.UnitPrice = decimal.RequireFromString("-1")

	errs := order.ValidateInvariants()
	for _, want := range []error{ErrUsernameRequired, ErrProductNameRequired, ErrQuantityInvalid, ErrUnitPriceNegative} {
		found := false
		for _, got := range errs {
			if errors.Is(got, want) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected violation %v in %v", want, errs)
		}
	}
}

func TestValidateInvariants_TotalMismatch(t *testing.T) {
	order := validOrder()
	order.Quantity = 3
	// TotalAmount остался равным цене за единицу.
	errs := order.ValidateInvariants()
	if len(errs) != 1 || !errors.Is(errs[0], ErrTotalMismatch) {
		t.Fatalf("expected total mismatch, got %v", errs)
	}
}

func TestValidateInvariants_ExactDecimal(t *testing.T) {
	order := validOrder()
	order.UnitPrice = decimal.RequireFromString("0.10")
	order.Quantity = 3
	order.TotalAmount = decimal.RequireFromString("0.30")

	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected exact decimal multiplication, got %v", errs)
	}
}

func TestNewOrderNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)
	for i := 0; i < 100; i++ {
		number := NewOrderNumber()
		if !pattern.MatchString(number) {
			t.Fatalf("order number %q does not match expected format", number)
		}
	}
}

func TestNewOrderNumber_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		number := NewOrderNumber()
		if _, ok := seen[number]; ok {
			t.Fatalf("duplicate order number generated: %s", number)
		}
		seen[number] = struct{}{}
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    OrderStatus
		wantErr bool
	}{
		{raw: "PENDING", want: OrderStatusPending},
		{raw: "payment_completed", want: OrderStatusPaymentCompleted},
		{raw: " delivered ", want: OrderStatusDelivered},
		{raw: "PAYED", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseOrderStatus(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownStatus) {
				t.Fatalf("parse %q: expected ErrUnknownStatus, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}
