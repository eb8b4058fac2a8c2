package store

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
	"log/slog"
	"museum-ticket/common/contract"
	"museum-ticket/model"
	"testing"
	"time"
)

type PostgresStoreTestSuite struct {
	suite.Suite

	PgxMock pgxmock.PgxPoolIface
	Store   *PostgresStore
}

func (s *PostgresStoreTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	s.PgxMock = pool
	s.Store = NewPostgresStore(pool)

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *PostgresStoreTestSuite) TearDownTest() {
	s.NoError(s.PgxMock.ExpectationsWereMet())
	s.PgxMock.Close()
}

func TestPostgresStoreTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreTestSuite))
}

func mustPgDate(date string) pgtype.Date {
	d, err := toPgDate(date)
	if err != nil {
		panic(err)
	}
	return d
}

func (s *PostgresStoreTestSuite) TestGetRule() {
	updatedAt := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		date        string
		setupMock   func()
		expected    *model.BlockingRule
		expectError bool
	}{
		{
			name:        "invalid date",
			date:        "24-12-2025",
			setupMock:   func() {},
			expectError: true,
		},
		{
			name: "no rule",
			date: "2025-12-24",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`SELECT id, blocked_date, ticket_type, is_full_day_blocked, blocked_times, updated_at FROM availability_rules WHERE blocked_date = \$1`).
					WithArgs(mustPgDate("2025-12-24")).
					WillReturnError(pgx.ErrNoRows)
			},
			expected: nil,
		},
		{
			name: "database error",
			date: "2025-12-24",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`SELECT id, blocked_date, ticket_type, is_full_day_blocked, blocked_times, updated_at FROM availability_rules WHERE blocked_date = \$1`).
					WithArgs(mustPgDate("2025-12-24")).
					WillReturnError(fmt.Errorf("database error"))
			},
			expectError: true,
		},
		{
			name: "found",
			date: "2025-12-24",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`SELECT id, blocked_date, ticket_type, is_full_day_blocked, blocked_times, updated_at FROM availability_rules WHERE blocked_date = \$1`).
					WithArgs(mustPgDate("2025-12-24")).
					WillReturnRows(pgxmock.NewRows([]string{"id", "blocked_date", "ticket_type", "is_full_day_blocked", "blocked_times", "updated_at"}).
						AddRow(int64(1), mustPgDate("2025-12-24"), "lift", false, []string{"09:00", "14:00"}, pgtype.Timestamptz{Time: updatedAt, Valid: true}))
			},
			expected: &model.BlockingRule{
				Date:           "2025-12-24",
				ProductScope:   "lift",
				FullDayBlocked: false,
				BlockedTimes:   []string{"09:00", "14:00"},
				UpdatedAt:      updatedAt,
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			rule, err := s.Store.GetRule(context.Background(), tc.date)
			if tc.expectError {
				s.Error(err)
				return
			}

			s.NoError(err)
			s.Equal(tc.expected, rule)
		})
	}
}

func (s *PostgresStoreTestSuite) TestListRules() {
	columns := []string{"revision", "blocked_date", "ticket_type", "is_full_day_blocked", "blocked_times", "updated_at"}

	s.Run("empty calendar keeps revision", func() {
		s.PgxMock.ExpectQuery(`WITH rev AS \(SELECT revision FROM availability_revision WHERE id = 1\)`).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(7), pgtype.Date{}, pgtype.Text{}, pgtype.Bool{}, []string(nil), pgtype.Timestamptz{}))

		snapshot, err := s.Store.ListRules(context.Background())

		s.NoError(err)
		s.Equal(int64(7), snapshot.Revision)
		s.Empty(snapshot.Rules)
	})

	s.Run("rules", func() {
		s.PgxMock.ExpectQuery(`WITH rev AS \(SELECT revision FROM availability_revision WHERE id = 1\)`).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(9), mustPgDate("2025-12-24"), pgtype.Text{String: "all", Valid: true}, pgtype.Bool{Bool: true, Valid: true}, []string{}, pgtype.Timestamptz{}).
				AddRow(int64(9), mustPgDate("2025-12-26"), pgtype.Text{String: "duomo", Valid: true}, pgtype.Bool{Bool: false, Valid: true}, []string{"17:00"}, pgtype.Timestamptz{}))

		snapshot, err := s.Store.ListRules(context.Background())

		s.NoError(err)
		s.Equal(int64(9), snapshot.Revision)
		s.Len(snapshot.Rules, 2)
		s.True(snapshot.Rules["2025-12-24"].FullDayBlocked)
		s.Equal([]string{"17:00"}, snapshot.Rules["2025-12-26"].BlockedTimes)
	})

	s.Run("missing revision row", func() {
		s.PgxMock.ExpectQuery(`WITH rev AS \(SELECT revision FROM availability_revision WHERE id = 1\)`).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := s.Store.ListRules(context.Background())

		s.Error(err)
	})
}

func (s *PostgresStoreTestSuite) TestUpsertRule() {
	rule := model.BlockingRule{Date: "2025-12-24", ProductScope: "all", BlockedTimes: []string{"09:00"}}

	tests := []struct {
		name             string
		setupMock        func()
		expectedRevision int64
		expectError      bool
	}{
		{
			name: "begin error",
			setupMock: func() {
				s.PgxMock.ExpectBegin().WillReturnError(fmt.Errorf("begin error"))
			},
			expectError: true,
		},
		{
			name: "upsert error rolls back",
			setupMock: func() {
				s.PgxMock.ExpectBegin()
				s.PgxMock.ExpectQuery(`UPDATE availability_revision SET revision = revision \+ 1 WHERE id = 1 RETURNING revision`).
					WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(4)))
				s.PgxMock.ExpectExec(`INSERT INTO availability_rules`).
					WithArgs(mustPgDate("2025-12-24"), "all", false, []string{"09:00"}).
					WillReturnError(fmt.Errorf("database error"))
				s.PgxMock.ExpectRollback()
			},
			expectError: true,
		},
		{
			name: "success",
			setupMock: func() {
				s.PgxMock.ExpectBegin()
				s.PgxMock.ExpectQuery(`UPDATE availability_revision SET revision = revision \+ 1 WHERE id = 1 RETURNING revision`).
					WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(5)))
				s.PgxMock.ExpectExec(`INSERT INTO availability_rules`).
					WithArgs(mustPgDate("2025-12-24"), "all", false, []string{"09:00"}).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				s.PgxMock.ExpectCommit()
			},
			expectedRevision: 5,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			revision, err := s.Store.UpsertRule(context.Background(), rule)
			if tc.expectError {
				s.Error(err)
				s.Zero(revision)
				return
			}

			s.NoError(err)
			s.Equal(tc.expectedRevision, revision)
		})
	}
}

func (s *PostgresStoreTestSuite) TestDeleteRule() {
	s.Run("nothing to delete", func() {
		s.PgxMock.ExpectBegin()
		s.PgxMock.ExpectQuery(`UPDATE availability_revision SET revision = revision \+ 1`).
			WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(6)))
		s.PgxMock.ExpectExec(`DELETE FROM availability_rules WHERE blocked_date = \$1`).
			WithArgs(mustPgDate("2025-12-24")).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		s.PgxMock.ExpectRollback()

		revision, deleted, err := s.Store.DeleteRule(context.Background(), "2025-12-24")

		s.NoError(err)
		s.False(deleted)
		s.Zero(revision)
	})

	s.Run("deleted", func() {
		s.PgxMock.ExpectBegin()
		s.PgxMock.ExpectQuery(`UPDATE availability_revision SET revision = revision \+ 1`).
			WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(6)))
		s.PgxMock.ExpectExec(`DELETE FROM availability_rules WHERE blocked_date = \$1`).
			WithArgs(mustPgDate("2025-12-24")).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		s.PgxMock.ExpectCommit()

		revision, deleted, err := s.Store.DeleteRule(context.Background(), "2025-12-24")

		s.NoError(err)
		s.True(deleted)
		s.Equal(int64(6), revision)
	})
}

func (s *PostgresStoreTestSuite) TestInsertOrder() {
	order := model.Order{
		DisplayId:           "12345678",
		AuthorizationHandle: "pi_123",
		Product:             "lift",
		VisitDate:           "2025-12-24",
		VisitTime:           "14:00",
		Adults:              2,
		Reduced:             1,
		TotalPriceCents:     9170,
		CustomerName:        "John Doe",
		CustomerEmail:       "john@example.com",
		CustomerPhone:       "+39123456789",
		Language:            "en",
		Status:              model.OrderStatusPaid,
	}
	args := []any{"12345678", "pi_123", "lift", mustPgDate("2025-12-24"), "14:00", int32(2), int32(1), int64(9170),
		"John Doe", "john@example.com", "+39123456789", "en", "paid"}
	createdAt := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		setupMock        func()
		expectedInserted bool
		expectedErr      error
		expectError      bool
	}{
		{
			name: "already recorded",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`INSERT INTO orders .* ON CONFLICT \(authorization_handle\) DO NOTHING RETURNING id, created_at, updated_at`).
					WithArgs(args...).
					WillReturnError(pgx.ErrNoRows)
			},
			expectedInserted: false,
		},
		{
			name: "display id collision",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`INSERT INTO orders`).
					WithArgs(args...).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_display_id_key"})
			},
			expectedErr: contract.ErrDuplicateDisplayId,
			expectError: true,
		},
		{
			name: "database error",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`INSERT INTO orders`).
					WithArgs(args...).
					WillReturnError(fmt.Errorf("database error"))
			},
			expectError: true,
		},
		{
			name: "inserted",
			setupMock: func() {
				s.PgxMock.ExpectQuery(`INSERT INTO orders`).
					WithArgs(args...).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
						AddRow(int64(42), pgtype.Timestamptz{Time: createdAt, Valid: true}, pgtype.Timestamptz{Time: createdAt, Valid: true}))
			},
			expectedInserted: true,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			saved, inserted, err := s.Store.InsertOrder(context.Background(), order)
			if tc.expectError {
				s.Error(err)
				if tc.expectedErr != nil {
					s.ErrorIs(err, tc.expectedErr)
				}
				return
			}

			s.NoError(err)
			s.Equal(tc.expectedInserted, inserted)
			if inserted {
				s.Equal(int64(42), saved.Id)
				s.Equal(createdAt, saved.CreatedAt)
				s.Equal("pi_123", saved.AuthorizationHandle)
			}
		})
	}
}

func (s *PostgresStoreTestSuite) TestUpdateOrder() {
	sent := true

	s.Run("status mismatch", func() {
		s.PgxMock.ExpectExec(`UPDATE orders SET status = COALESCE\(\$1, status\), tickets_sent = COALESCE\(\$2, tickets_sent\), receipt_queued = COALESCE\(\$3, receipt_queued\), updated_at = NOW\(\) WHERE id = \$4 AND status = \$5`).
			WithArgs(pgtype.Text{}, pgtype.Bool{Bool: true, Valid: true}, pgtype.Bool{}, int64(42), "paid").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		updated, err := s.Store.UpdateOrder(context.Background(), 42, model.OrderPatch{ExpectedStatus: model.OrderStatusPaid, TicketsSent: &sent})

		s.NoError(err)
		s.False(updated)
	})

	s.Run("updated", func() {
		s.PgxMock.ExpectExec(`UPDATE orders SET status = COALESCE`).
			WithArgs(pgtype.Text{}, pgtype.Bool{Bool: true, Valid: true}, pgtype.Bool{}, int64(42), "paid").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		updated, err := s.Store.UpdateOrder(context.Background(), 42, model.OrderPatch{ExpectedStatus: model.OrderStatusPaid, TicketsSent: &sent})

		s.NoError(err)
		s.True(updated)
	})

	s.Run("database error", func() {
		s.PgxMock.ExpectExec(`UPDATE orders SET status = COALESCE`).
			WithArgs(pgtype.Text{}, pgtype.Bool{Bool: true, Valid: true}, pgtype.Bool{}, int64(42), "paid").
			WillReturnError(fmt.Errorf("database error"))

		_, err := s.Store.UpdateOrder(context.Background(), 42, model.OrderPatch{ExpectedStatus: model.OrderStatusPaid, TicketsSent: &sent})

		s.Error(err)
	})

	s.Run("receipt queued", func() {
		queued := true

		s.PgxMock.ExpectExec(`UPDATE orders SET status = COALESCE`).
			WithArgs(pgtype.Text{}, pgtype.Bool{}, pgtype.Bool{Bool: true, Valid: true}, int64(42), "paid").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		updated, err := s.Store.UpdateOrder(context.Background(), 42, model.OrderPatch{ExpectedStatus: model.OrderStatusPaid, ReceiptQueued: &queued})

		s.NoError(err)
		s.True(updated)
	})
}

func (s *PostgresStoreTestSuite) TestGetOrderByAuthorization() {
	columns := []string{"id", "display_id", "authorization_handle", "ticket_type", "visit_date", "visit_time", "quantity_adult",
		"quantity_reduced", "total_price_cents", "customer_name", "customer_email", "customer_phone", "language", "status",
		"tickets_sent", "receipt_queued", "created_at", "updated_at"}

	s.Run("not found", func() {
		s.PgxMock.ExpectQuery(`FROM orders WHERE authorization_handle = \$1`).
			WithArgs("pi_missing").
			WillReturnError(pgx.ErrNoRows)

		order, err := s.Store.GetOrderByAuthorization(context.Background(), "pi_missing")

		s.NoError(err)
		s.Nil(order)
	})

	s.Run("found", func() {
		s.PgxMock.ExpectQuery(`FROM orders WHERE authorization_handle = \$1`).
			WithArgs("pi_123").
			WillReturnRows(pgxmock.NewRows(columns).AddRow(
				int64(42), "12345678", "pi_123", "lift", mustPgDate("2025-12-24"), "14:00", int32(2), int32(1), int64(9170),
				"John Doe", "john@example.com", "+39123456789", "it", "paid", false, true, pgtype.Timestamptz{}, pgtype.Timestamptz{},
			))

		order, err := s.Store.GetOrderByAuthorization(context.Background(), "pi_123")

		s.NoError(err)
		s.Require().NotNil(order)
		s.Equal(int64(42), order.Id)
		s.Equal("2025-12-24", order.VisitDate)
		s.Equal(model.OrderStatusPaid, order.Status)
		s.Equal("it", order.Language)
		s.True(order.ReceiptQueued)
	})
}

func (s *PostgresStoreTestSuite) TestListOrders() {
	sent := false

	s.PgxMock.ExpectQuery(`FROM orders WHERE \(\$1::text IS NULL OR status = \$1\) AND \(\$2::bool IS NULL OR tickets_sent = \$2\) ORDER BY created_at DESC LIMIT \$3`).
		WithArgs(pgtype.Text{String: "paid", Valid: true}, pgtype.Bool{Bool: false, Valid: true}, int32(300)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "display_id", "authorization_handle", "ticket_type", "visit_date", "visit_time", "quantity_adult",
			"quantity_reduced", "total_price_cents", "customer_name", "customer_email", "customer_phone", "language", "status",
			"tickets_sent", "receipt_queued", "created_at", "updated_at"}))

	orders, err := s.Store.ListOrders(context.Background(), model.OrderFilter{Status: model.OrderStatusPaid, TicketsSent: &sent, Limit: 300})

	s.NoError(err)
	s.Empty(orders)
	s.NotNil(orders)
}
