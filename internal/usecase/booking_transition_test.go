package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"repairmate-backend/config"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/repository"
	"repairmate-backend/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestApplyBookingTransitionTx(t *testing.T) {
	bookingID := uuid.New()
	customerID := uuid.New()

	pendingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "customer_id", "status"}).
			AddRow(bookingID.String(), customerID.String(), "pending")
	}
	emptyHistory := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "booking_id", "status", "changed_by"})
	}

	cancel := func(db *gorm.DB) (*entity.Booking, error) {
		log := quietLogger()
		return applyBookingTransition(context.Background(), db, log,
			repository.NewBookingRepository(),
			service.NewAuditService(log, repository.NewAuditLogRepository()),
			service.NewBookingEventService(nil, log, config.NotificationConfig{}),
			bookingID, entity.OpCancel, customerID, entity.RoleIDCustomer,
			entity.AuditActionBookingCancel,
			entity.TransitionParams{Reason: "changed my mind"})
	}

	t.Run("zero guarded rows fails and writes nothing", func(t *testing.T) {
		db, mock := newGormMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(pendingRow())
		mock.ExpectQuery(`SELECT \* FROM "booking_status_events"`).WillReturnRows(emptyHistory())
		mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		booking, err := cancel(db)
		assert.ErrorIs(t, err, entity.ErrInvalidTransition)
		assert.Nil(t, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history append failure rolls back", func(t *testing.T) {
		db, mock := newGormMock(t)
		boom := errors.New("insert failed")
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(pendingRow())
		mock.ExpectQuery(`SELECT \* FROM "booking_status_events"`).WillReturnRows(emptyHistory())
		mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "booking_status_events"`).WillReturnError(boom)
		mock.ExpectRollback()

		booking, err := cancel(db)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("successful cancel writes history and audit before commit", func(t *testing.T) {
		db, mock := newGormMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(pendingRow())
		mock.ExpectQuery(`SELECT \* FROM "booking_status_events"`).WillReturnRows(emptyHistory())
		mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "booking_status_events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO "audit_logs"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "status", "cancel_reason"}).
				AddRow(bookingID.String(), customerID.String(), "cancelled", "changed my mind"))
		mock.ExpectQuery(`SELECT \* FROM "booking_status_events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "status", "changed_by", "reason"}).
				AddRow(int64(1), bookingID.String(), "cancelled", customerID.String(), "changed my mind"))
		mock.ExpectCommit()

		booking, err := cancel(db)
		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
		require.Len(t, booking.StatusHistory, 1)
		assert.Equal(t, entity.BookingStatusCancelled, booking.StatusHistory[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reload failure aborts the transition", func(t *testing.T) {
		db, mock := newGormMock(t)
		boom := errors.New("reload failed")
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(pendingRow())
		mock.ExpectQuery(`SELECT \* FROM "booking_status_events"`).WillReturnRows(emptyHistory())
		mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "booking_status_events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO "audit_logs"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnError(boom)
		mock.ExpectRollback()

		booking, err := cancel(db)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
