package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `
	id, reference, origin_site_id, destination_site_id, status, reason,
	created_by, created_at, dispatched_by, dispatched_at,
	resolved_by, resolved_at, resolution_reason, updated_at`

// TransferRepo implementación de TransferRepository (cabecera + líneas) sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traspasos. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create inserta la cabecera y sus líneas. Debe ejecutarse dentro de una tx.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (
			id, reference, origin_site_id, destination_site_id, status, reason,
			created_by, created_at, dispatched_by, dispatched_at,
			resolved_by, resolved_at, resolution_reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Reference, t.OriginSiteID, t.DestinationSiteID, string(t.Status), t.Reason,
		t.CreatedBy, t.CreatedAt, t.DispatchedBy, t.DispatchedAt,
		t.ResolvedBy, t.ResolvedAt, t.ResolutionReason, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert transfer %s: %w", t.Reference, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	for _, l := range t.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transfer_lines (transfer_id, product_id, quantity, received_quantity, out_movement_id, in_movement_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, l.ProductID, l.Quantity, l.ReceivedQuantity, l.OutMovementID, l.InMovementID,
		)
		if err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un traspaso con sus líneas; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea la cabecera del traspaso.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) getOne(ctx context.Context, query, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Transfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Update persiste estado, auditoría y cantidades recibidas por línea.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE transfers SET
			status = $2, dispatched_by = $3, dispatched_at = $4,
			resolved_by = $5, resolved_at = $6, resolution_reason = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		t.ID, string(t.Status), t.DispatchedBy, t.DispatchedAt,
		t.ResolvedBy, t.ResolvedAt, t.ResolutionReason, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}
	for _, l := range t.Lines {
		_, err := r.q.Exec(ctx,
			`UPDATE transfer_lines SET received_quantity = $3 WHERE transfer_id = $1 AND product_id = $2`,
			t.ID, l.ProductID, l.ReceivedQuantity,
		)
		if err != nil {
			return fmt.Errorf("update transfer line: %w", err)
		}
	}
	return nil
}

// List filtra por estado, sede (origen o destino) y rango de creación; más reciente primero.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.SiteID != "" {
		args = append(args, f.SiteID)
		conds = append(conds, fmt.Sprintf("(origin_site_id = $%d OR destination_site_id = $%d)", len(args), len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transfers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	query := `SELECT ` + transferColumns + ` FROM transfers` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadLines carga las líneas de varios traspasos en una sola consulta.
func (r *TransferRepo) loadLines(ctx context.Context, transfers []*entity.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Transfer, len(transfers))
	ids := make([]string, 0, len(transfers))
	for _, t := range transfers {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT transfer_id, product_id, quantity, received_quantity, out_movement_id, in_movement_id
		FROM transfer_lines WHERE transfer_id = ANY($1) ORDER BY transfer_id, product_id`, ids)
	if err != nil {
		return fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			transferID string
			l          entity.TransferLine
		)
		if err := rows.Scan(&transferID, &l.ProductID, &l.Quantity, &l.ReceivedQuantity, &l.OutMovementID, &l.InMovementID); err != nil {
			return fmt.Errorf("scan transfer line: %w", err)
		}
		if t, ok := byID[transferID]; ok {
			t.Lines = append(t.Lines, l)
		}
	}
	return rows.Err()
}

func scanTransfer(row scanner) (*entity.Transfer, error) {
	var (
		t      entity.Transfer
		status string
	)
	err := row.Scan(
		&t.ID, &t.Reference, &t.OriginSiteID, &t.DestinationSiteID, &status, &t.Reason,
		&t.CreatedBy, &t.CreatedAt, &t.DispatchedBy, &t.DispatchedAt,
		&t.ResolvedBy, &t.ResolvedAt, &t.ResolutionReason, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}
