// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ storage.Store = (*Storage)(nil)

type Storage struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db, now: time.Now}
}

// === RecordStorage ===

// SQLSTATE unique_violation
const uniqueViolation = "23505"

const recordColumns = `id, kind, description, amount, category, status, record_date, related_party, details, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// details holds whichever variant payload the record carries.
func encodeDetails(r domain.FinancialRecord) ([]byte, error) {
	var v any
	switch r.Kind {
	case domain.KindExpense:
		v = r.Expense
	case domain.KindPurchaseOrder:
		v = r.PurchaseOrder
	case domain.KindCommission:
		v = r.Commission
	}
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func decodeDetails(r *domain.FinancialRecord, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	switch r.Kind {
	case domain.KindExpense:
		r.Expense = &domain.ExpenseDetails{}
		return json.Unmarshal(raw, r.Expense)
	case domain.KindPurchaseOrder:
		r.PurchaseOrder = &domain.PurchaseOrderDetails{}
		return json.Unmarshal(raw, r.PurchaseOrder)
	case domain.KindCommission:
		r.Commission = &domain.CommissionDetails{}
		return json.Unmarshal(raw, r.Commission)
	}
	return nil
}

func scanRecord(row scanner) (domain.FinancialRecord, error) {
	var (
		r       domain.FinancialRecord
		kind    string
		status  string
		date    time.Time
		details []byte
	)
	if err := row.Scan(&r.ID, &kind, &r.Description, &r.Amount, &r.Category, &status, &date, &r.RelatedParty, &details, &r.CreatedAt); err != nil {
		return r, err
	}
	r.Kind = domain.RecordKind(kind)
	r.Status = domain.Status(status)
	r.Date = date.Format(domain.ISODateLayout)
	if err := decodeDetails(&r, details); err != nil {
		return r, fmt.Errorf("decode %s details: %w", r.Kind, err)
	}
	return r, nil
}

func parseRecordDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.ISODateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid record date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func (s *Storage) CreateRecord(ctx context.Context, merchantID int64, r domain.FinancialRecord) (domain.FinancialRecord, error) {
	r, err := storage.PrepareRecord(r, s.now())
	if err != nil {
		return r, err
	}
	date, err := parseRecordDate(r.Date)
	if err != nil {
		return r, err
	}
	details, err := encodeDetails(r)
	if err != nil {
		return r, fmt.Errorf("encode details: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO financial_records (id, merchant_id, kind, description, amount, category, status, record_date, related_party, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.ID, merchantID, string(r.Kind), r.Description, r.Amount, r.Category, string(r.Status), date, r.RelatedParty, details, r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return r, fmt.Errorf("record %q: %w", r.ID, storage.ErrAlreadyExists)
		}
		return r, fmt.Errorf("insert record: %w", err)
	}

	slog.Debug("record created", "merchant_id", merchantID, "id", r.ID, "kind", r.Kind)
	return r, nil
}

func (s *Storage) GetRecord(ctx context.Context, merchantID int64, id string) (domain.FinancialRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM financial_records WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r, fmt.Errorf("record %q: %w", id, storage.ErrNotFound)
		}
		return r, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

func (s *Storage) ListRecords(ctx context.Context, merchantID int64, kind domain.RecordKind) ([]domain.FinancialRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM financial_records WHERE merchant_id = $1`
	args := []any{merchantID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY seq`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []domain.FinancialRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Storage) UpdateRecord(ctx context.Context, merchantID int64, r domain.FinancialRecord) error {
	if err := r.CheckVariant(); err != nil {
		return err
	}
	date, err := parseRecordDate(r.Date)
	if err != nil {
		return err
	}
	details, err := encodeDetails(r)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE financial_records
		SET description = $3, amount = $4, category = $5, record_date = $6, related_party = $7, details = $8
		WHERE merchant_id = $1 AND id = $2 AND kind = $9
	`, merchantID, r.ID, r.Description, r.Amount, r.Category, date, r.RelatedParty, details, string(r.Kind))
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %q: %w", r.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) UpdateStatus(ctx context.Context, merchantID int64, id string, to domain.Status) (domain.FinancialRecord, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+recordColumns+` FROM financial_records WHERE merchant_id = $1 AND id = $2 FOR UPDATE`, merchantID, id)
	current, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return current, fmt.Errorf("record %q: %w", id, storage.ErrNotFound)
		}
		return current, fmt.Errorf("lock record: %w", err)
	}

	moved, err := current.WithStatus(to)
	if err != nil {
		return current, err
	}

	if _, err := tx.Exec(ctx, `UPDATE financial_records SET status = $3 WHERE merchant_id = $1 AND id = $2`, merchantID, id, string(moved.Status)); err != nil {
		return current, fmt.Errorf("update status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return current, fmt.Errorf("commit tx: %w", err)
	}

	slog.Info("record status changed", "merchant_id", merchantID, "id", id, "from", current.Status, "to", moved.Status)
	return moved, nil
}

func (s *Storage) DeleteRecord(ctx context.Context, merchantID int64, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM financial_records WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

// === ProductStorage ===

func (s *Storage) SaveProduct(ctx context.Context, merchantID int64, p domain.Product) (domain.Product, error) {
	p = storage.PrepareProduct(p, s.now())
	_, err := s.db.Exec(ctx, `
		INSERT INTO products (id, merchant_id, name, cost, retail_price, wholesale_price, gateway_fee_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (merchant_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			cost = EXCLUDED.cost,
			retail_price = EXCLUDED.retail_price,
			wholesale_price = EXCLUDED.wholesale_price,
			gateway_fee_enabled = EXCLUDED.gateway_fee_enabled
	`, p.ID, merchantID, p.Name, p.Cost, p.RetailPrice, p.WholesalePrice, p.GatewayFeeEnabled, p.CreatedAt)
	if err != nil {
		return p, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

const productColumns = `id, name, cost, retail_price, wholesale_price, gateway_fee_enabled, created_at`

func scanProduct(row scanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Cost, &p.RetailPrice, &p.WholesalePrice, &p.GatewayFeeEnabled, &p.CreatedAt)
	return p, err
}

func (s *Storage) GetProduct(ctx context.Context, merchantID int64, id string) (domain.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE merchant_id = $1 AND id = $2`, merchantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("product %q: %w", id, storage.ErrNotFound)
		}
		return p, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *Storage) ListProducts(ctx context.Context, merchantID int64) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE merchant_id = $1 ORDER BY created_at`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Storage) DeleteProduct(ctx context.Context, merchantID int64, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

// === CommissionStorage ===

func (s *Storage) ListRules(ctx context.Context, merchantID int64) ([]domain.CommissionRule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT seller_id, seller_name, rate_percent::text, goal, active
		FROM commission_rules
		WHERE merchant_id = $1
		ORDER BY seller_name
	`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list commission rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.CommissionRule{}
	for rows.Next() {
		var (
			r    domain.CommissionRule
			rate string
		)
		if err := rows.Scan(&r.SellerID, &r.SellerName, &rate, &r.Goal, &r.Active); err != nil {
			return nil, fmt.Errorf("scan commission rule: %w", err)
		}
		if r.RatePercent, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parse rate for seller %q: %w", r.SellerID, err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Storage) UpsertRule(ctx context.Context, merchantID int64, rule domain.CommissionRule) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO commission_rules (merchant_id, seller_id, seller_name, rate_percent, goal, active)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		ON CONFLICT (merchant_id, seller_id) DO UPDATE SET
			seller_name = EXCLUDED.seller_name,
			rate_percent = EXCLUDED.rate_percent,
			goal = EXCLUDED.goal,
			active = EXCLUDED.active
	`, merchantID, rule.SellerID, rule.SellerName, rule.RatePercent.String(), rule.Goal, rule.Active)
	if err != nil {
		return fmt.Errorf("upsert commission rule: %w", err)
	}
	return nil
}

func (s *Storage) ListSellers(ctx context.Context, merchantID int64) ([]domain.Seller, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, sales_month FROM sellers WHERE merchant_id = $1 ORDER BY name`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	sellers := []domain.Seller{}
	for rows.Next() {
		var sl domain.Seller
		if err := rows.Scan(&sl.ID, &sl.Name, &sl.SalesMonth); err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, sl)
	}
	return sellers, rows.Err()
}

func (s *Storage) UpsertSeller(ctx context.Context, merchantID int64, sl domain.Seller) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sellers (merchant_id, id, name, sales_month)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (merchant_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			sales_month = EXCLUDED.sales_month
	`, merchantID, sl.ID, sl.Name, sl.SalesMonth)
	if err != nil {
		return fmt.Errorf("upsert seller: %w", err)
	}
	return nil
}
