package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

type memRepo struct {
	byUser map[string]*domain.TransportSettings
}

func newMemRepo() *memRepo {
	return &memRepo{byUser: make(map[string]*domain.TransportSettings)}
}

func (m *memRepo) Get(_ context.Context, userID string) (*domain.TransportSettings, error) {
	ts, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ts
	return &cp, nil
}

func (m *memRepo) Save(_ context.Context, s *domain.TransportSettings) error {
	cp := *s
	m.byUser[cp.UserID] = &cp
	return nil
}

type fakeVerifier struct {
	err    error
	called bool
	got    *domain.TransportSettings
}

func (f *fakeVerifier) Verify(_ context.Context, s *domain.TransportSettings) error {
	f.called = true
	f.got = s
	return f.err
}

func TestSaveAndGet(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	saved, err := svc.Save(context.Background(), "user-1", SaveInput{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		SMTPUser:  "mailer",
		SMTPPass:  "secret",
		UseTLS:    true,
		FromEmail: "news@example.com",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.SMTPHost != "smtp.example.com" {
		t.Errorf("host = %q", saved.SMTPHost)
	}

	got, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SMTPPass != "secret" {
		t.Errorf("password not persisted")
	}
}

func TestSaveValidation(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	if _, err := svc.Save(context.Background(), "user-1", SaveInput{SMTPPort: 587}); err == nil {
		t.Error("expected error for missing host")
	}
	if _, err := svc.Save(context.Background(), "user-1", SaveInput{SMTPHost: "h", SMTPPort: 70000}); err == nil {
		t.Error("expected error for bad port")
	}
}

func TestSaveKeepsPasswordWhenBlank(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Save(context.Background(), "user-1", SaveInput{
		SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPPass: "secret",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err = svc.Save(context.Background(), "user-1", SaveInput{
		SMTPHost: "smtp2.example.com", SMTPPort: 465, UseTLS: true,
	})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SMTPPass != "secret" {
		t.Errorf("password = %q, want carried over", got.SMTPPass)
	}
	if got.SMTPHost != "smtp2.example.com" {
		t.Errorf("host not updated")
	}
}

func TestVerify(t *testing.T) {
	repo := newMemRepo()
	v := &fakeVerifier{}
	svc := NewService(repo, v)

	if err := svc.Verify(context.Background(), "user-1"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	repo.byUser["user-1"] = &domain.TransportSettings{UserID: "user-1"}
	if err := svc.Verify(context.Background(), "user-1"); err != ErrNotConfigured {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}

	repo.byUser["user-1"].SMTPHost = "smtp.example.com"
	if err := svc.Verify(context.Background(), "user-1"); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if !v.called {
		t.Error("verifier not invoked")
	}

	v.err = errors.New("dial tcp: connection refused")
	if err := svc.Verify(context.Background(), "user-1"); err == nil {
		t.Error("expected dial error surfaced")
	}
}
