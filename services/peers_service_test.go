package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-review-api/models"
)

func peerEmails(peers []models.User) []string {
	emails := make([]string, 0, len(peers))
	for i := range peers {
		emails = append(emails, peers[i].Email)
	}
	return emails
}

func TestEnsureDefaultsSeedsSubordinatesAndManager(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	mgr := newUser(store, "mgr@corp", nil)
	subject := newUser(store, "subject@corp", mgr)
	newUser(store, "a@corp", subject)
	newUser(store, "b@corp", subject)
	inactive := newUser(store, "gone@corp", subject)
	inactive.IsActive = false
	svc := NewPeerService(store, NewAuditLogger(store))

	peers, err := svc.EnsureDefaults(subject, interval)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@corp", "b@corp", "mgr@corp"}, peerEmails(peers))

	// all seeded rows sit in requested status
	rows, err := store.ReviewsByTarget(interval.IntervalID, subject.UserID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, models.ReviewRequested, row.Status)
	}

	// a second visit changes nothing
	peers, err = svc.EnsureDefaults(subject, interval)
	require.NoError(t, err)
	assert.Len(t, peers, 3)
	rows, err = store.ReviewsByTarget(interval.IntervalID, subject.UserID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestEnsureDefaultsForBossSkipsManager(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	boss := newUser(store, "boss@corp", nil)
	newUser(store, "report@corp", boss)
	svc := NewPeerService(store, NewAuditLogger(store))

	peers, err := svc.EnsureDefaults(boss, interval)
	require.NoError(t, err)
	assert.Equal(t, []string{"report@corp"}, peerEmails(peers))
}

func TestApplySelectionNeverRemovesManager(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	mgr := newUser(store, "mgr@corp", nil)
	subject := newUser(store, "subject@corp", mgr)
	peerA := newUser(store, "a@corp", mgr)
	peerB := newUser(store, "b@corp", mgr)
	svc := NewPeerService(store, NewAuditLogger(store))

	require.NoError(t, svc.ApplySelection(subject, subject, interval,
		[]uint{mgr.UserID, peerA.UserID, peerB.UserID}))

	// dropping everybody but A still keeps the manager
	require.NoError(t, svc.ApplySelection(subject, subject, interval, []uint{peerA.UserID}))

	peers, err := svc.ExistingPeers(subject, interval)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@corp", "mgr@corp"}, peerEmails(peers))
}

func TestApplySelectionIsIdempotent(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	mgr := newUser(store, "mgr@corp", nil)
	subject := newUser(store, "subject@corp", mgr)
	peerA := newUser(store, "a@corp", mgr)
	svc := NewPeerService(store, NewAuditLogger(store))

	selection := []uint{peerA.UserID}
	require.NoError(t, svc.ApplySelection(subject, subject, interval, selection))
	first, err := svc.ExistingPeers(subject, interval)
	require.NoError(t, err)

	require.NoError(t, svc.ApplySelection(subject, subject, interval, selection))
	second, err := svc.ExistingPeers(subject, interval)
	require.NoError(t, err)
	assert.ElementsMatch(t, peerEmails(first), peerEmails(second))
}

func TestApplySelectionKeepsProgressedRows(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	mgr := newUser(store, "mgr@corp", nil)
	subject := newUser(store, "subject@corp", mgr)
	peerA := newUser(store, "a@corp", mgr)
	svc := NewPeerService(store, NewAuditLogger(store))

	// A already wrote a draft; deselecting them must not destroy it
	require.NoError(t, store.CreateReviews([]*models.Review{{
		IntervalID: interval.IntervalID,
		TargetID:   subject.UserID,
		ReviewerID: peerA.UserID,
		Status:     models.ReviewDraft,
	}}))

	require.NoError(t, svc.ApplySelection(subject, subject, interval, nil))

	rows, err := store.ReviewsByTarget(interval.IntervalID, subject.UserID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ReviewDraft, rows[0].Status)
}

func TestApplySelectionRejectsSelfAndInactive(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	mgr := newUser(store, "mgr@corp", nil)
	subject := newUser(store, "subject@corp", mgr)
	inactive := newUser(store, "gone@corp", mgr)
	inactive.IsActive = false
	svc := NewPeerService(store, NewAuditLogger(store))

	var validation *ValidationError
	err := svc.ApplySelection(subject, subject, interval, []uint{subject.UserID})
	require.ErrorAs(t, err, &validation)

	err = svc.ApplySelection(subject, subject, interval, []uint{inactive.UserID})
	require.ErrorAs(t, err, &validation)
}

func TestApplySelectionRequiresPermission(t *testing.T) {
	store, _, _ := newStack()
	interval := store.addInterval("2018Q2", models.IntervalStarted)
	mgr := newUser(store, "mgr@corp", nil)
	subject := newUser(store, "subject@corp", mgr)
	peer := newUser(store, "peer@corp", mgr)
	staff := newUser(store, "hr@corp", mgr)
	staff.IsStaff = true
	svc := NewPeerService(store, NewAuditLogger(store))

	err := svc.ApplySelection(peer, subject, interval, []uint{peer.UserID})
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "not_peer_manager", forbidden.Check)

	// the manager and staff may edit someone else's selection
	require.NoError(t, svc.ApplySelection(mgr, subject, interval, []uint{peer.UserID}))
	require.NoError(t, svc.ApplySelection(staff, subject, interval, []uint{peer.UserID, mgr.UserID}))
}
