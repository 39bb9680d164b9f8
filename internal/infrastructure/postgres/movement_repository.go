package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `
	id, seq, product_id, site_id, type, quantity,
	applied, stock_before, stock_after, applied_at,
	reference, reason, observations, unit_cost, sale_price,
	voided, void_reason, voided_by, voided_at, void_stock_before, void_stock_after,
	transfer_id, paired_movement_id, transfer_status, shipped_quantity,
	created_at, created_by`

// MovementRepo implementación de MovementRepository (kardex) sobre PostgreSQL. Pasar pool o tx (Querier).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del kardex.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento. seq lo asigna la secuencia de la tabla.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (
			id, product_id, site_id, type, quantity,
			applied, stock_before, stock_after, applied_at,
			reference, reason, observations, unit_cost, sale_price,
			voided, void_reason, voided_by, voided_at, void_stock_before, void_stock_after,
			transfer_id, paired_movement_id, transfer_status, shipped_quantity,
			created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.SiteID, string(m.Type), m.Quantity,
		m.Applied, m.StockBefore, m.StockAfter, m.AppliedAt,
		m.Reference, m.Reason, m.Observations, m.UnitCost, m.SalePrice,
		m.Voided, m.VoidReason, m.VoidedBy, m.VoidedAt, m.VoidStockBefore, m.VoidStockAfter,
		nullString(m.TransferID), nullString(m.PairedMovementID), string(m.TransferStatus), m.ShippedQuantity,
		m.CreatedAt, m.CreatedBy,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea la fila del movimiento.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *MovementRepo) getOne(ctx context.Context, query, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update modifica solo los campos mutables (aplicación, anulación, estado de traspaso).
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE stock_movements SET
			quantity = $2, applied = $3, stock_before = $4, stock_after = $5, applied_at = $6,
			voided = $7, void_reason = $8, voided_by = $9, voided_at = $10,
			void_stock_before = $11, void_stock_after = $12,
			transfer_status = $13, shipped_quantity = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.Quantity, m.Applied, m.StockBefore, m.StockAfter, m.AppliedAt,
		m.Voided, m.VoidReason, m.VoidedBy, m.VoidedAt,
		m.VoidStockBefore, m.VoidStockAfter,
		string(m.TransferStatus), m.ShippedQuantity,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// List aplica los filtros y devuelve la página (más reciente primero) junto con el total.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.SiteID != "" {
		add("site_id = $%d", f.SiteID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	if !f.IncludeVoided {
		conds = append(conds, "NOT voided")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	list, err := r.query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByPair devuelve el historial completo de un producto en una sede (seq ascendente).
func (r *MovementRepo) ListByPair(ctx context.Context, productID, siteID string) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+`
		FROM stock_movements WHERE product_id = $1 AND site_id = $2 ORDER BY seq`, productID, siteID)
}

// ListByTransfer devuelve las piernas de un traspaso (seq ascendente).
func (r *MovementRepo) ListByTransfer(ctx context.Context, transferID string) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+`
		FROM stock_movements WHERE transfer_id = $1 ORDER BY seq`, transferID)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row scanner) (*entity.Movement, error) {
	var (
		m                       entity.Movement
		typ, transferStatus     string
		transferID, pairedMovID *string
	)
	err := row.Scan(
		&m.ID, &m.Seq, &m.ProductID, &m.SiteID, &typ, &m.Quantity,
		&m.Applied, &m.StockBefore, &m.StockAfter, &m.AppliedAt,
		&m.Reference, &m.Reason, &m.Observations, &m.UnitCost, &m.SalePrice,
		&m.Voided, &m.VoidReason, &m.VoidedBy, &m.VoidedAt, &m.VoidStockBefore, &m.VoidStockAfter,
		&transferID, &pairedMovID, &transferStatus, &m.ShippedQuantity,
		&m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.TransferStatus = entity.TransferStatus(transferStatus)
	m.TransferID = derefString(transferID)
	m.PairedMovementID = derefString(pairedMovID)
	return &m, nil
}
