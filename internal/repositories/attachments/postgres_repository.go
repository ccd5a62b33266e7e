package attachments

import (
	"context"
	"fmt"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/dbx"
	"github.com/mkhramtsov/siteforms/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Attachment) error {

	query :=
		`INSERT INTO attachments (parent_id, storage_key, caption)
		VALUES ($1, $2, '')
		RETURNING id, created_at;`

	err := r.db.QueryRowContext(ctx, query, a.ParentID, a.StorageKey).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	a.Caption = ""

	return nil
}

func (r *PostgresRepository) SelectByParent(ctx context.Context, parentID string) ([]*models.Attachment, error) {
	query := `SELECT id, parent_id, storage_key, caption, created_at FROM attachments
		WHERE parent_id=$1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}

	var result []*models.Attachment

	defer rows.Close()
	for rows.Next() {
		var item = models.Attachment{}
		err := rows.Scan(&item.ID, &item.ParentID, &item.StorageKey, &item.Caption, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) CountByParent(ctx context.Context, parentID string) (int, error) {
	query := `SELECT COUNT(*) FROM attachments WHERE parent_id=$1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, parentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) UpdateCaption(ctx context.Context, id int64, caption string) error {

	query := `UPDATE attachments SET caption=$2 WHERE id=$1`
	result, err := r.db.ExecContext(ctx, query, id, caption)
	if err != nil {
		return fmt.Errorf("failed to update caption: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected != 1 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {

	query := `DELETE FROM attachments WHERE id=$1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected != 1 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) InsertSignature(ctx context.Context, s *models.SignatureRecord) error {

	query :=
		`INSERT INTO signatures (parent_id, actor_id, actor_name, actor_role, storage_key, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;`

	err := r.db.QueryRowContext(ctx, query,
		s.ParentID, s.ActorID, s.ActorName, s.Role, s.StorageKey, s.Width, s.Height).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
