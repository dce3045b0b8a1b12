package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockStorePinger struct {
	err error
}

func (m *mockStorePinger) Ping(_ context.Context) error { return m.err }

type mockServiceChecker struct {
	err error
}

func (m *mockServiceChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockStorePinger{}, &mockServiceChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[CheckTokenStore] != CheckOK {
		t.Errorf("expected token store %q, got %q", CheckOK, r.Checks[CheckTokenStore])
	}
	if r.Checks[CheckSearchService] != CheckOK {
		t.Errorf("expected search service %q, got %q", CheckOK, r.Checks[CheckSearchService])
	}
}

func TestCheck_StoreError(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("conn refused")}, &mockServiceChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckTokenStore] != CheckError {
		t.Errorf("expected token store %q, got %q", CheckError, r.Checks[CheckTokenStore])
	}
	if r.Checks[CheckSearchService] != CheckOK {
		t.Errorf("expected search service %q, got %q", CheckOK, r.Checks[CheckSearchService])
	}
}

func TestCheck_RemoteError(t *testing.T) {
	svc := New(&mockStorePinger{}, &mockServiceChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckSearchService] != CheckError {
		t.Errorf("expected search service %q, got %q", CheckError, r.Checks[CheckSearchService])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockStorePinger{err: errors.New("store down")},
		&mockServiceChecker{err: errors.New("remote down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoRemote(t *testing.T) {
	svc := New(&mockStorePinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[CheckSearchService]; ok {
		t.Error("search service check should be absent when remote is nil")
	}
}

func TestCheck_NoRemote_StoreError(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("fail")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}
