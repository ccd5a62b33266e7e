package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhramtsov/siteforms/internal/models"
)

func TestListSink_AppliesTransformsInOrder(t *testing.T) {
	s := &ListSink{}

	s.Update(func(prev []models.Attachment) []models.Attachment {
		return append(prev, models.Attachment{ID: 1})
	})
	s.Update(func(prev []models.Attachment) []models.Attachment {
		// the transform must see the latest value, never a stale snapshot
		require.Len(t, prev, 1)
		return append(prev, models.Attachment{ID: 2})
	})

	got := s.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestListSink_SnapshotIsACopy(t *testing.T) {
	s := &ListSink{}
	s.Update(func(prev []models.Attachment) []models.Attachment {
		return append(prev, models.Attachment{ID: 1, Caption: "x"})
	})

	snap := s.Snapshot()
	snap[0].Caption = "mutated"

	assert.Equal(t, "x", s.Snapshot()[0].Caption)
}
