package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/service/analytics"
)

func TestEventRepoInsert(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	e := &domain.CampaignEvent{
		ID:         "ev-1",
		CampaignID: "camp-1",
		ContactID:  "ct-1",
		EventType:  domain.EventSent,
		EventAt:    time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO campaign_events").
		WithArgs(e.ID, e.CampaignID, e.ContactID, e.EventType, "", "", "", "", "", e.EventAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepo(db)
	if err := repo.Insert(context.Background(), e); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEventRepoHasOpened(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("camp-1", "ct-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewEventRepo(db)
	opened, err := repo.HasOpened(context.Background(), "camp-1", "ct-1")
	if err != nil {
		t.Fatalf("HasOpened: %v", err)
	}
	if !opened {
		t.Error("expected true")
	}
}

func TestEventRepoEventCounts(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("camp-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT event_type, COUNT").
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"event_type", "count"}).
			AddRow("sent", 100).
			AddRow("opened", 25))

	repo := NewEventRepo(db)
	counts, err := repo.EventCounts(context.Background(), "user-1", "camp-1")
	if err != nil {
		t.Fatalf("EventCounts: %v", err)
	}
	if counts[domain.EventSent] != 100 || counts[domain.EventOpened] != 25 {
		t.Errorf("counts = %v", counts)
	}
}

func TestEventRepoEventCountsForeignCampaign(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("camp-1", "user-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewEventRepo(db)
	if _, err := repo.EventCounts(context.Background(), "user-2", "camp-1"); err != analytics.ErrCampaignNotFound {
		t.Errorf("err = %v, want ErrCampaignNotFound", err)
	}
}

func TestEventRepoContactCounts(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "active"}).AddRow(42, 40))

	repo := NewEventRepo(db)
	total, active, err := repo.ContactCounts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ContactCounts: %v", err)
	}
	if total != 42 || active != 40 {
		t.Errorf("counts = %d/%d", total, active)
	}
}
