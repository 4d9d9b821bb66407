package session

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMySQLStoreGetMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM client_state").
		WithArgs("u1", KeyBookingDraft).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	s := MySQLStore{DB: db}
	_, ok, err := s.Get(context.Background(), "u1", KeyBookingDraft)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss for empty table")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLStoreSetThenTake(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO client_state").
		WithArgs("u1", KeyBookingDraft, "payload").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT value FROM client_state").
		WithArgs("u1", KeyBookingDraft).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("payload"))
	mock.ExpectExec("DELETE FROM client_state").
		WithArgs("u1", KeyBookingDraft).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := MySQLStore{DB: db}
	ctx := context.Background()
	if err := s.Set(ctx, "u1", KeyBookingDraft, "payload"); err != nil {
		t.Fatalf("set error: %v", err)
	}
	v, ok, err := Take(ctx, s, "u1", KeyBookingDraft)
	if err != nil {
		t.Fatalf("take error: %v", err)
	}
	if !ok || v != "payload" {
		t.Fatalf("unexpected take result: ok=%v v=%q", ok, v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
