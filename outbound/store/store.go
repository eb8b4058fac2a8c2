package store

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"log/slog"
	"museum-ticket/common/constant"
	"museum-ticket/common/contract"
	"museum-ticket/model"
	"museum-ticket/outbound/sqlgen"
	"time"
)

const (
	pgUniqueViolation         = "23505"
	orderDisplayIdConstraint  = "orders_display_id_key"
	availabilityRevisionRowID = 1
)

// PostgresStore persists blocking rules and orders.
type PostgresStore struct {
	Db      contract.DbConn
	Querier *sqlgen.Queries
}

func NewPostgresStore(db contract.DbConn) *PostgresStore {
	return &PostgresStore{Db: db, Querier: sqlgen.New(db)}
}

func (s *PostgresStore) GetRule(ctx context.Context, date string) (*model.BlockingRule, error) {
	pgDate, err := toPgDate(date)
	if err != nil {
		return nil, err
	}

	row, err := s.Querier.GetAvailabilityRule(ctx, pgDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get availability rule: %w", err)
	}

	rule := model.BlockingRule{
		Date:           fromPgDate(row.BlockedDate),
		ProductScope:   row.TicketType,
		FullDayBlocked: row.IsFullDayBlocked,
		BlockedTimes:   nonNilTimes(row.BlockedTimes),
		UpdatedAt:      row.UpdatedAt.Time,
	}
	return &rule, nil
}

func (s *PostgresStore) ListRules(ctx context.Context) (model.RuleSnapshot, error) {
	rows, err := s.Querier.ListAvailabilityRules(ctx)
	if err != nil {
		return model.RuleSnapshot{}, fmt.Errorf("list availability rules: %w", err)
	}

	if len(rows) == 0 {
		return model.RuleSnapshot{}, fmt.Errorf("list availability rules: revision row %d missing", availabilityRevisionRowID)
	}

	snapshot := model.RuleSnapshot{
		Revision: rows[0].Revision,
		Rules:    make(map[string]model.BlockingRule, len(rows)),
	}

	for _, row := range rows {
		if !row.BlockedDate.Valid {
			continue
		}

		date := fromPgDate(row.BlockedDate)
		snapshot.Rules[date] = model.BlockingRule{
			Date:           date,
			ProductScope:   row.TicketType.String,
			FullDayBlocked: row.IsFullDayBlocked.Bool,
			BlockedTimes:   nonNilTimes(row.BlockedTimes),
			UpdatedAt:      row.UpdatedAt.Time,
		}
	}

	return snapshot, nil
}

// UpsertRule writes the rule and returns the new revision. The revision row is
// locked first so concurrent writers commit in revision order.
func (s *PostgresStore) UpsertRule(ctx context.Context, rule model.BlockingRule) (int64, error) {
	pgDate, err := toPgDate(rule.Date)
	if err != nil {
		return 0, err
	}

	var revision int64
	err = s.withTx(ctx, func(q *sqlgen.Queries) error {
		revision, err = q.BumpAvailabilityRevision(ctx)
		if err != nil {
			return fmt.Errorf("bump availability revision: %w", err)
		}

		err = q.UpsertAvailabilityRule(ctx, sqlgen.UpsertAvailabilityRuleParams{
			BlockedDate:      pgDate,
			TicketType:       rule.ProductScope,
			IsFullDayBlocked: rule.FullDayBlocked,
			BlockedTimes:     nonNilTimes(rule.BlockedTimes),
		})
		if err != nil {
			return fmt.Errorf("upsert availability rule: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return revision, nil
}

// DeleteRule removes the rule for date. It reports false, and leaves the
// revision untouched, when no rule existed.
func (s *PostgresStore) DeleteRule(ctx context.Context, date string) (int64, bool, error) {
	pgDate, err := toPgDate(date)
	if err != nil {
		return 0, false, err
	}

	var revision int64
	var deleted bool
	err = s.withTx(ctx, func(q *sqlgen.Queries) error {
		revision, err = q.BumpAvailabilityRevision(ctx)
		if err != nil {
			return fmt.Errorf("bump availability revision: %w", err)
		}

		affected, err := q.DeleteAvailabilityRule(ctx, pgDate)
		if err != nil {
			return fmt.Errorf("delete availability rule: %w", err)
		}

		if affected == 0 {
			return errNothingToDelete
		}

		deleted = true
		return nil
	})
	if errors.Is(err, errNothingToDelete) {
		return 0, false, nil
	}

	return revision, deleted, err
}

var errNothingToDelete = errors.New("nothing to delete")

func (s *PostgresStore) InsertOrder(ctx context.Context, order model.Order) (model.Order, bool, error) {
	visitDate, err := toPgDate(order.VisitDate)
	if err != nil {
		return model.Order{}, false, err
	}

	row, err := s.Querier.InsertOrder(ctx, sqlgen.InsertOrderParams{
		DisplayID:           order.DisplayId,
		AuthorizationHandle: order.AuthorizationHandle,
		TicketType:          order.Product,
		VisitDate:           visitDate,
		VisitTime:           order.VisitTime,
		QuantityAdult:       order.Adults,
		QuantityReduced:     order.Reduced,
		TotalPriceCents:     order.TotalPriceCents,
		CustomerName:        order.CustomerName,
		CustomerEmail:       order.CustomerEmail,
		CustomerPhone:       order.CustomerPhone,
		Language:            order.Language,
		Status:              string(order.Status),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, false, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == orderDisplayIdConstraint {
		return model.Order{}, false, contract.ErrDuplicateDisplayId
	}

	if err != nil {
		return model.Order{}, false, fmt.Errorf("insert order: %w", err)
	}

	order.Id = row.ID
	order.CreatedAt = row.CreatedAt.Time
	order.UpdatedAt = row.UpdatedAt.Time

	return order, true, nil
}

// UpdateOrder applies patch only while the order is in patch.ExpectedStatus and
// reports whether a row matched.
func (s *PostgresStore) UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) (bool, error) {
	arg := sqlgen.UpdateOrderParams{
		ID:             id,
		ExpectedStatus: string(patch.ExpectedStatus),
	}

	if patch.Status != nil {
		arg.Status = pgtype.Text{String: string(*patch.Status), Valid: true}
	}

	if patch.TicketsSent != nil {
		arg.TicketsSent = pgtype.Bool{Bool: *patch.TicketsSent, Valid: true}
	}

	if patch.ReceiptQueued != nil {
		arg.ReceiptQueued = pgtype.Bool{Bool: *patch.ReceiptQueued, Valid: true}
	}

	cmd, err := s.Querier.UpdateOrder(ctx, arg)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}

	return cmd.RowsAffected() > 0, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	row, err := s.Querier.GetOrder(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	order := toOrder(row)
	return &order, nil
}

func (s *PostgresStore) GetOrderByAuthorization(ctx context.Context, handle string) (*model.Order, error) {
	row, err := s.Querier.GetOrderByAuthorizationHandle(ctx, handle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order by authorization handle: %w", err)
	}

	order := toOrder(row)
	return &order, nil
}

func (s *PostgresStore) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	arg := sqlgen.ListOrdersParams{Limit: filter.Limit}

	if filter.Status != "" {
		arg.Status = pgtype.Text{String: string(filter.Status), Valid: true}
	}

	if filter.TicketsSent != nil {
		arg.TicketsSent = pgtype.Bool{Bool: *filter.TicketsSent, Valid: true}
	}

	rows, err := s.Querier.ListOrders(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, toOrder(row))
	}

	return orders, nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(q *sqlgen.Queries) error) error {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any(constant.LogFieldErr, err))
		}
	}()

	if err = fn(s.Querier.WithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func toOrder(row sqlgen.Order) model.Order {
	return model.Order{
		Id:                  row.ID,
		DisplayId:           row.DisplayID,
		AuthorizationHandle: row.AuthorizationHandle,
		Product:             row.TicketType,
		VisitDate:           fromPgDate(row.VisitDate),
		VisitTime:           row.VisitTime,
		Adults:              row.QuantityAdult,
		Reduced:             row.QuantityReduced,
		TotalPriceCents:     row.TotalPriceCents,
		CustomerName:        row.CustomerName,
		CustomerEmail:       row.CustomerEmail,
		CustomerPhone:       row.CustomerPhone,
		Language:            row.Language,
		Status:              model.OrderStatus(row.Status),
		TicketsSent:         row.TicketsSent,
		ReceiptQueued:       row.ReceiptQueued,
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}

func toPgDate(date string) (pgtype.Date, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func fromPgDate(date pgtype.Date) string {
	if !date.Valid {
		return ""
	}
	return date.Time.Format(time.DateOnly)
}

func nonNilTimes(times []string) []string {
	if times == nil {
		return []string{}
	}
	return times
}
