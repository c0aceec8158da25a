package pool

import (
	"context"
	"testing"
	"time"

	"github.com/chef/depsolver/fd"
)

func newTestSession() fd.Session {
	return fd.NewBacktracking()
}

func TestNewRejectsNonPositiveWorkers(t *testing.T) {
	if _, err := New(0, newTestSession); err == nil {
		t.Fatal("New(0, ...) should return an error")
	}
	if _, err := New(-1, newTestSession); err == nil {
		t.Fatal("New(-1, ...) should return an error")
	}
}

func TestTakeReturnRecycles(t *testing.T) {
	p, err := New(1, newTestSession)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	s1, _, err := p.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	p.Return(s1, fd.Ok)

	s2, _, err := p.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if s2 != s1 {
		t.Fatal("expected Take to recycle the returned session")
	}
	p.Return(s2, fd.Ok)
}

func TestTakeBlocksAtCapacity(t *testing.T) {
	p, err := New(1, newTestSession)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	s1, _, err := p.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, _, err := p.Take(ctx); err == nil {
		t.Fatal("Take should block (and time out) while the single slot is held")
	}

	p.Return(s1, fd.Ok)
}

func TestReturnFailRetiresSession(t *testing.T) {
	p, err := New(1, newTestSession)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	s1, _, err := p.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	p.Return(s1, fd.Fail)

	s2, _, err := p.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if s2 == s1 {
		t.Fatal("a Fail disposition should not be recycled")
	}
	p.Return(s2, fd.Ok)
}

func TestTakeContextCanceled(t *testing.T) {
	p, err := New(1, newTestSession)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := p.Take(ctx); err == nil {
		t.Fatal("Take with a canceled context should return an error")
	}
}
