// Package attachments persists attachment metadata rows. The object bytes
// themselves live in object storage; a row here is the authoritative half of
// a committed attachment.
package attachments

import (
	"context"

	"github.com/mkhramtsov/siteforms/internal/models"
)

type Repository interface {
	// Insert creates a metadata row for a freshly stored blob and fills in
	// the server-assigned ID and CreatedAt. Captions start empty.
	Insert(ctx context.Context, a *models.Attachment) error

	// SelectByParent returns all attachments of one record, ordered by
	// creation time ascending.
	SelectByParent(ctx context.Context, parentID string) ([]*models.Attachment, error)

	// CountByParent returns the number of committed attachments on a record.
	CountByParent(ctx context.Context, parentID string) (int, error)

	// UpdateCaption replaces the caption of one attachment.
	UpdateCaption(ctx context.Context, id int64, caption string) error

	// Delete removes the metadata row.
	Delete(ctx context.Context, id int64) error

	// InsertSignature creates a metadata row for a committed signature and
	// fills in the server-assigned ID and CreatedAt.
	InsertSignature(ctx context.Context, s *models.SignatureRecord) error
}
