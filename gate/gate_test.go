package gate

import (
	"context"
	"errors"
	"testing"
)

func allowOwner(owner uint) PolicyFunc[uint] {
	return func(_ context.Context, user uint, _ Action, _ any) error {
		if user == owner {
			return nil
		}
		return ErrUnauthorized
	}
}

func TestGateAuthorize(t *testing.T) {
	g := NewGate[uint]()
	g.Register("quote", allowOwner(7))

	if err := g.Authorize(context.Background(), 7, ActionView, "quote", nil); err != nil {
		t.Fatalf("owner should be authorized: %v", err)
	}
	if err := g.Authorize(context.Background(), 8, ActionView, "quote", nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGateZeroUserDenied(t *testing.T) {
	g := NewGate[uint]()
	g.Register("quote", allowOwner(0))
	if err := g.Authorize(context.Background(), 0, ActionCreate, "quote", nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("zero user must be denied before policies run, got %v", err)
	}
}

func TestGateMissingPolicy(t *testing.T) {
	g := NewGate[uint]()
	if err := g.Authorize(context.Background(), 1, ActionView, "report", nil); !errors.Is(err, ErrNoPolicyDefined) {
		t.Fatalf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestGatePropagatesPolicyError(t *testing.T) {
	g := NewGate[uint]()
	g.Register("quote", PolicyFunc[uint](func(context.Context, uint, Action, any) error {
		return ErrQuotaExceeded
	}))
	if err := g.Authorize(context.Background(), 1, ActionCreate, "quote", nil); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if g.Can(context.Background(), 1, ActionCreate, "quote", nil) {
		t.Fatalf("Can must be false when policy denies")
	}
}
