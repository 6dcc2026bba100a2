package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func campaignRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "list_id", "template_id", "name", "subject",
		"from_name", "from_email", "reply_to", "html_content", "status",
		"scheduled_at", "sent_at", "created_at", "updated_at",
	})
}

func TestCampaignRepoGet(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs("camp-1", "user-1").
		WillReturnRows(campaignRows().AddRow(
			"camp-1", "user-1", "list-1", nil, "Launch", "Hi",
			"Acme", "news@example.com", "", "<p>hi</p>", "draft",
			nil, nil, now, now,
		))

	repo := NewCampaignRepo(db)
	c, err := repo.Get(context.Background(), "user-1", "camp-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Status != domain.CampaignDraft {
		t.Errorf("status = %q", c.Status)
	}
	if c.ListID == nil || *c.ListID != "list-1" {
		t.Errorf("list id = %v", c.ListID)
	}
	if c.TemplateID != nil || c.ScheduledAt != nil || c.SentAt != nil {
		t.Error("null columns should yield nil pointers")
	}
}

func TestCampaignRepoGetNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs("nope", "user-1").
		WillReturnError(sql.ErrNoRows)

	repo := NewCampaignRepo(db)
	if _, err := repo.Get(context.Background(), "user-1", "nope"); err != campaign.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCampaignRepoBeginSending(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE campaigns SET status = 'sending'").
		WithArgs("camp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	ok, err := repo.BeginSending(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("BeginSending: %v", err)
	}
	if !ok {
		t.Error("expected CAS to win")
	}
}

func TestCampaignRepoBeginSendingLosesRace(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE campaigns SET status = 'sending'").
		WithArgs("camp-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCampaignRepo(db)
	ok, err := repo.BeginSending(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("BeginSending: %v", err)
	}
	if ok {
		t.Error("CAS should lose when no row matched")
	}
}

func TestCampaignRepoMarkSent(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	sentAt := time.Now().UTC()
	mock.ExpectExec("UPDATE campaigns SET status = 'sent'").
		WithArgs("camp-1", sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	if err := repo.MarkSent(context.Background(), "camp-1", sentAt); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCampaignRepoUpdateNoFields(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCampaignRepo(db)
	if err := repo.Update(context.Background(), "user-1", "camp-1", campaign.UpdateFields{}); err != nil {
		t.Errorf("empty update should be a no-op, got %v", err)
	}
}

func TestCampaignRepoDeleteWhileSending(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	// The guard clause excludes sending rows, so zero rows match.
	mock.ExpectExec("DELETE FROM campaigns").
		WithArgs("camp-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCampaignRepo(db)
	if err := repo.Delete(context.Background(), "user-1", "camp-1"); err != campaign.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCampaignRepoListDue(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs(now).
		WillReturnRows(campaignRows().AddRow(
			"camp-1", "user-1", "list-1", nil, "Weekly", "Digest",
			"", "", "", "<p>hi</p>", "scheduled",
			past, nil, past, past,
		))

	repo := NewCampaignRepo(db)
	due, err := repo.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(due) != 1 || due[0].ID != "camp-1" {
		t.Errorf("due = %+v", due)
	}
}
