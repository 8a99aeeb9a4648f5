package repository

import (
	"errors"
	"regexp"
	"testing"

	"building_scheduler/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewSQLiteStore(db), mock
}

func TestSQLiteStore_ReadAll(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"key", "body"}).
		AddRow("A", []byte("<a/>")).
		AddRow("B", []byte("<b/>"))
	mock.ExpectQuery(regexp.QuoteMeta(selectAllRecordsSQL)).WillReturnRows(rows)

	recs, err := s.ReadAll(ctx(t))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 || recs[0].Key != "A" || string(recs[1].Data) != "<b/>" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestSQLiteStore_ReadOne(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectRecordSQL)).
		WithArgs("HQ").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte("<x/>")))
	mock.ExpectQuery(regexp.QuoteMeta(selectRecordSQL)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	data, err := s.ReadOne(ctx(t), "HQ")
	if err != nil || string(data) != "<x/>" {
		t.Fatalf("ReadOne = %q, %v", data, err)
	}
	if _, err := s.ReadOne(ctx(t), "missing"); !models.IsNotFound(err) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestSQLiteStore_WriteOne(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertRecordSQL)).
		WithArgs("HQ", []byte("<x/>"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertRecordSQL)).
		WithArgs("HQ", []byte("<y/>"), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	if err := s.WriteOne(ctx(t), "HQ", []byte("<x/>")); err != nil {
		t.Fatalf("WriteOne: %v", err)
	}
	err := s.WriteOne(ctx(t), "HQ", []byte("<y/>"))
	var ioErr *models.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "write" {
		t.Fatalf("want IOError, got %v", err)
	}
}

func TestSQLiteStore_DeleteOne(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteRecordSQL)).
		WithArgs("HQ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteRecordSQL)).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteOne(ctx(t), "HQ"); err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if err := s.DeleteOne(ctx(t), "gone"); !models.IsNotFound(err) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestSQLiteStore_Exists(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(existsRecordSQL)).
		WithArgs("HQ").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(existsRecordSQL)).
		WithArgs("other").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	if ok, err := s.Exists(ctx(t), "HQ"); err != nil || !ok {
		t.Fatalf("Exists(HQ) = %v, %v", ok, err)
	}
	if ok, err := s.Exists(ctx(t), "other"); err != nil || ok {
		t.Fatalf("Exists(other) = %v, %v", ok, err)
	}
}
