package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"bad request sentinel", ErrItemQtyInvalid, KindBadRequest},
		{"insufficient stock", ErrInsufficientStock, KindBadRequest},
		{"not found sentinel", ErrOrderNotFound, KindNotFound},
		{"conflict sentinel", ErrDuplicateSKU, KindConflict},
		{"version conflict", ErrOrderVersionConflict, KindConflict},
		{"wrapped sentinel", fmt.Errorf("create order: %w", ErrProductNotFound), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("expected kind %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("outer: %w", ErrInsufficientStock)
	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatal("errors.Is must see through wrapping")
	}
	if errors.Is(wrapped, ErrProductNotFound) {
		t.Fatal("distinct sentinels must not compare equal")
	}
}

func TestIsVersionConflict(t *testing.T) {
	t.Parallel()

	if !IsVersionConflict(fmt.Errorf("tx: %w", ErrOrderVersionConflict)) {
		t.Fatal("wrapped version conflict must be detected")
	}
	if IsVersionConflict(ErrDuplicateSKU) {
		t.Fatal("other conflicts are not version conflicts")
	}
}
