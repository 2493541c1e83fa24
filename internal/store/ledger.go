package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/theirongolddev/proplife/internal/finance"
	"github.com/theirongolddev/proplife/internal/model"
)

// SaveCost stores a cost entry, assigning an id when it has none.
func (s *Store) SaveCost(ctx context.Context, e model.CostEntry) (model.CostEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO cost_entries
		(id, property_id, domain, category, label, amount, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PropertyID, string(e.Domain), e.Category, e.Label, e.Amount, formatTime(e.Date),
	)
	if err != nil {
		return e, fmt.Errorf("saving cost for %s: %w", e.PropertyID, err)
	}
	return e, nil
}

// ListCosts returns the cost entries of a property. An empty domain lists all domains.
func (s *Store) ListCosts(ctx context.Context, propertyID string, domain model.CostDomain) ([]model.CostEntry, error) {
	query := `SELECT id, property_id, domain, category, label, amount, date
		FROM cost_entries WHERE property_id = ?`
	args := []any{propertyID}
	if domain != "" {
		query += " AND domain = ?"
		args = append(args, string(domain))
	}
	query += " ORDER BY date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing costs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.CostEntry
	for rows.Next() {
		var e model.CostEntry
		var dom string
		var date sql.NullString
		if err := rows.Scan(&e.ID, &e.PropertyID, &dom, &e.Category, &e.Label, &e.Amount, &date); err != nil {
			return nil, err
		}
		e.Domain = model.CostDomain(dom)
		e.Date = parseTime(date.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveReceipt stores a receipt under the next free receipt number of the
// property. The number is read and written in one transaction.
func (s *Store) SaveReceipt(ctx context.Context, r model.PaymentReceipt) (model.PaymentReceipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return r, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := listReceipts(ctx, tx, r.PropertyID)
	if err != nil {
		return r, err
	}
	r.ReceiptNumber = finance.NextReceiptNumber(existing)

	_, err = tx.ExecContext(ctx, `INSERT INTO payment_receipts
		(property_id, receipt_number, amount, date, method) VALUES (?, ?, ?, ?, ?)`,
		r.PropertyID, r.ReceiptNumber, r.Amount, formatTime(r.Date), r.Method,
	)
	if err != nil {
		return r, fmt.Errorf("saving receipt for %s: %w", r.PropertyID, err)
	}
	return r, tx.Commit()
}

// ListReceipts returns a property's receipts ordered by number.
func (s *Store) ListReceipts(ctx context.Context, propertyID string) ([]model.PaymentReceipt, error) {
	return listReceipts(ctx, s.db, propertyID)
}

// SaveInstallment stores an installment under the next free installment number.
func (s *Store) SaveInstallment(ctx context.Context, in model.PaymentInstallment) (model.PaymentInstallment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return in, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := listInstallments(ctx, tx, in.PropertyID)
	if err != nil {
		return in, err
	}
	in.InstallmentNumber = finance.NextInstallmentNumber(existing)

	_, err = tx.ExecContext(ctx, `INSERT INTO payment_installments
		(property_id, installment_number, amount, date, method) VALUES (?, ?, ?, ?, ?)`,
		in.PropertyID, in.InstallmentNumber, in.Amount, formatTime(in.Date), in.Method,
	)
	if err != nil {
		return in, fmt.Errorf("saving installment for %s: %w", in.PropertyID, err)
	}
	return in, tx.Commit()
}

// ListInstallments returns a property's installments ordered by number.
func (s *Store) ListInstallments(ctx context.Context, propertyID string) ([]model.PaymentInstallment, error) {
	return listInstallments(ctx, s.db, propertyID)
}

// SetPrice records the reference price of one domain.
func (s *Store) SetPrice(ctx context.Context, p model.DealPrice) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO deal_prices
		(property_id, domain, price) VALUES (?, ?, ?)`,
		p.PropertyID, string(p.Domain), p.Price,
	)
	if err != nil {
		return fmt.Errorf("setting %s price for %s: %w", p.Domain, p.PropertyID, err)
	}
	return nil
}

// ListPrices returns every price recorded for a property.
func (s *Store) ListPrices(ctx context.Context, propertyID string) ([]model.DealPrice, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT property_id, domain, price FROM deal_prices WHERE property_id = ? ORDER BY domain", propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing prices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prices []model.DealPrice
	for rows.Next() {
		var p model.DealPrice
		var dom string
		if err := rows.Scan(&p.PropertyID, &dom, &p.Price); err != nil {
			return nil, err
		}
		p.Domain = model.CostDomain(dom)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// Ledger loads everything the finance aggregator needs for one property.
func (s *Store) Ledger(ctx context.Context, propertyID string) (finance.Ledger, error) {
	var l finance.Ledger
	var err error
	if l.Costs, err = s.ListCosts(ctx, propertyID, ""); err != nil {
		return l, err
	}
	if l.Receipts, err = s.ListReceipts(ctx, propertyID); err != nil {
		return l, err
	}
	if l.Installments, err = s.ListInstallments(ctx, propertyID); err != nil {
		return l, err
	}
	if l.Prices, err = s.ListPrices(ctx, propertyID); err != nil {
		return l, err
	}
	return l, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listReceipts(ctx context.Context, q querier, propertyID string) ([]model.PaymentReceipt, error) {
	rows, err := q.QueryContext(ctx, `SELECT property_id, receipt_number, amount, date, method
		FROM payment_receipts WHERE property_id = ? ORDER BY receipt_number`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.PaymentReceipt
	for rows.Next() {
		var r model.PaymentReceipt
		var date sql.NullString
		if err := rows.Scan(&r.PropertyID, &r.ReceiptNumber, &r.Amount, &date, &r.Method); err != nil {
			return nil, err
		}
		r.Date = parseTime(date.String)
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func listInstallments(ctx context.Context, q querier, propertyID string) ([]model.PaymentInstallment, error) {
	rows, err := q.QueryContext(ctx, `SELECT property_id, installment_number, amount, date, method
		FROM payment_installments WHERE property_id = ? ORDER BY installment_number`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing installments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var installments []model.PaymentInstallment
	for rows.Next() {
		var in model.PaymentInstallment
		var date sql.NullString
		if err := rows.Scan(&in.PropertyID, &in.InstallmentNumber, &in.Amount, &date, &in.Method); err != nil {
			return nil, err
		}
		in.Date = parseTime(date.String)
		installments = append(installments, in)
	}
	return installments, rows.Err()
}
