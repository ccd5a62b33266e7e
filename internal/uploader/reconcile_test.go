package uploader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/models"
)

func att(id int64, key string) models.Attachment {
	return models.Attachment{
		ID:         id,
		ParentID:   testParentID,
		StorageKey: key,
		CreatedAt:  time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Second),
	}
}

func TestMergeAttachments_AppendsMissing(t *testing.T) {
	local := []models.Attachment{att(1, "k1")}
	authoritative := []models.Attachment{att(1, "k1"), att(2, "k2"), att(3, "k3")}

	out := MergeAttachments(local, authoritative)

	require.Len(t, out, 3)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
	assert.Equal(t, int64(3), out[2].ID)
}

func TestMergeAttachments_NothingMissingReturnsLocalUnchanged(t *testing.T) {
	local := []models.Attachment{att(1, "k1"), att(2, "k2")}
	authoritative := []models.Attachment{att(1, "k1"), att(2, "k2")}

	out := MergeAttachments(local, authoritative)

	assert.Equal(t, local, out)
	// same backing array: a no-op merge allocates nothing
	require.Len(t, out, 2)
	assert.Same(t, &local[0], &out[0])
}

func TestMergeAttachments_LocalOnlyEntriesSurvive(t *testing.T) {
	// a locally known entry missing from the authoritative read (e.g. a
	// deletion race) is kept; reconciliation only appends, never removes
	local := []models.Attachment{att(9, "k9")}
	authoritative := []models.Attachment{att(2, "k2")}

	out := MergeAttachments(local, authoritative)

	require.Len(t, out, 2)
	assert.Equal(t, int64(9), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
}

func TestMergeAttachments_Idempotent(t *testing.T) {
	local := []models.Attachment{att(1, "k1")}
	authoritative := []models.Attachment{att(1, "k1"), att(2, "k2")}

	once := MergeAttachments(local, authoritative)
	twice := MergeAttachments(once, authoritative)

	assert.Equal(t, once, twice)
}

func TestReconcile_AppendsRowsFromOtherSessions(t *testing.T) {
	e, _, repo, sink, _ := newTestEngine(t)

	// rows committed by an earlier session / another device
	require.NoError(t, repo.Insert(context.Background(), &models.Attachment{ParentID: testParentID, StorageKey: "records/x/one.jpg"}))
	require.NoError(t, repo.Insert(context.Background(), &models.Attachment{ParentID: testParentID, StorageKey: "records/x/two.jpg"}))

	require.NoError(t, e.Reconcile(context.Background()))

	list := sink.snapshot()
	require.Len(t, list, 2)
	assert.Equal(t, "http://cdn.local/media/records/x/one.jpg", list[0].PublicURL,
		"public reference must be derived from the stored key")

	// second pass with no intervening writes changes nothing
	before := sink.changeCount()
	require.NoError(t, e.Reconcile(context.Background()))
	assert.Equal(t, before, sink.changeCount(), "reconciliation must be idempotent")
}

func TestReconcile_ReadFailureIsNonFatal(t *testing.T) {
	e, _, repo, sink, log := newTestEngine(t)
	repo.selectErr = errors.New("connection reset")

	err := e.Reconcile(context.Background())
	require.ErrorIs(t, err, common.ErrorReconciliation)
	assert.Empty(t, sink.snapshot(), "local state stays as accumulated")

	// the post-drain variant only logs
	e.reconcile(context.Background())
	assert.True(t, log.contains("reconciliation skipped"))
}

func TestDrain_ReconciliationHealsMissedCommit(t *testing.T) {
	e, _, repo, sink, _ := newTestEngine(t)

	// a row another writer committed before our drain finishes
	require.NoError(t, repo.Insert(context.Background(), &models.Attachment{ParentID: testParentID, StorageKey: "records/x/foreign.jpg"}))

	_, err := e.Add(context.Background(), asset("mine.jpg", "image/jpeg"))
	require.NoError(t, err)
	e.Wait()

	// both our commit and the foreign row are present after the drain
	list := sink.snapshot()
	require.Len(t, list, 2)
}
