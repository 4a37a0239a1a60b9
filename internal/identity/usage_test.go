package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/identity-store/internal/store/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestSummarizeUsageAndTopUps(t *testing.T) {
	entries := []models.UsageEntry{
		{
			Timestamp:  "2026-08-01T10:00:00Z",
			Action:     "query",
			TokenCost:  floatPtr(1.0),
			BilledCost: 2.0,
			Requests:   1,
		},
		{
			Timestamp:  "2026-08-02T09:30:00Z",
			Action:     models.ActionTopUp,
			BilledCost: -50,
			Requests:   0,
		},
	}

	usage := SummarizeUsageEntries(entries)
	assert.Equal(t, UsageSummary{
		TotalTokenCost: 1.0,
		TotalBilled:    2.0,
		TotalRequests:  1,
		NetRevenue:     1.0,
	}, usage)

	topups := SummarizeTopUps(entries)
	assert.Equal(t, TopUpSummary{
		TotalTopUps: 50,
		Count:       1,
		LastTopUpAt: "2026-08-02T09:30:00Z",
	}, topups)
}

func TestSummarizeEmptyLedger(t *testing.T) {
	assert.Zero(t, SummarizeUsageEntries(nil))
	assert.Zero(t, SummarizeTopUps(nil))
}

func TestSummarizeTopUpsTracksLatest(t *testing.T) {
	entries := []models.UsageEntry{
		{Timestamp: "2026-08-03T00:00:00Z", Action: models.ActionTopUp, BilledCost: -10},
		{Timestamp: "2026-08-01T00:00:00Z", Action: models.ActionTopUp, BilledCost: -20},
	}
	sum := SummarizeTopUps(entries)
	assert.Equal(t, 30.0, sum.TotalTopUps)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, "2026-08-03T00:00:00Z", sum.LastTopUpAt)
}

func TestTopUpOrganization(t *testing.T) {
	s := testService(t)
	org := bootstrapOrg(t, s)

	require.NoError(t, s.TopUpOrganization(org.ID, "actor-1", 50))

	doc, err := s.store.Load()
	require.NoError(t, err)
	stored := doc.Organizations[org.ID]
	assert.Equal(t, 50.0, stored.CreditBalance)
	require.Len(t, stored.Usage, 1)
	assert.True(t, stored.Usage[0].IsTopUp())
	assert.Equal(t, -50.0, stored.Usage[0].BilledCost, "top-ups record negative billed cost")

	assert.ErrorIs(t, s.TopUpOrganization("no-such-org", "actor-1", 1), ErrOrgNotFound)
}

func TestRecordUsageDebitsBalance(t *testing.T) {
	s := testService(t)
	org := bootstrapOrg(t, s)

	require.NoError(t, s.TopUpOrganization(org.ID, "actor-1", 100))

	grant, err := s.AddKeySet(org.ID, "actor-1", "Production", "")
	require.NoError(t, err)
	keyID := grant.KeySet.Keys[0].ID

	entry := models.UsageEntry{
		Action:     "query",
		TokenCost:  floatPtr(0.5),
		BilledCost: 2.5,
		Requests:   1,
		Metadata:   models.APIMetadata(keyID, grant.KeySet.ID),
	}
	require.NoError(t, s.RecordUsage(org.ID, entry, grant.KeySet.ID, keyID))

	doc, err := s.store.Load()
	require.NoError(t, err)
	stored := doc.Organizations[org.ID]
	assert.Equal(t, 97.5, stored.CreditBalance)

	// The entry lands on both the org ledger and the key's own ledger.
	require.Len(t, stored.Usage, 2)
	key := stored.KeySetByID(grant.KeySet.ID).Keys[0]
	require.Len(t, key.Usage, 1)
	assert.Equal(t, 2.5, key.Usage[0].BilledCost)
	assert.NotEmpty(t, key.Usage[0].Timestamp, "missing timestamp is stamped")

	// Unknown key set or key leaves the document untouched.
	assert.ErrorIs(t, s.RecordUsage(org.ID, entry, "no-such-set", keyID), ErrKeySetNotFound)
	assert.ErrorIs(t, s.RecordUsage(org.ID, entry, grant.KeySet.ID, "no-such-key"), ErrAPIKeyNotFound)
	doc, err = s.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 97.5, doc.Organizations[org.ID].CreditBalance)
}

func TestGetPlatformOverview(t *testing.T) {
	s := testService(t)
	org := bootstrapOrg(t, s)
	s.cfg.Platform.InternalOrgs = []string{org.ID}

	require.NoError(t, s.TopUpOrganization(org.ID, "actor-1", 100))
	require.NoError(t, s.RecordUsage(org.ID, models.UsageEntry{
		Action:     "query",
		TokenCost:  floatPtr(1),
		BilledCost: 3,
		Requests:   2,
	}, "", ""))

	owner, err := s.GetUserByEmail("owner@askbase.local")
	require.NoError(t, err)
	second, err := s.CreateOrganizationWithOwner("Beta Labs", owner.ID)
	require.NoError(t, err)
	require.NoError(t, s.TopUpOrganization(second.ID, owner.ID, 10))

	overview, err := s.GetPlatformOverview()
	require.NoError(t, err)
	require.Len(t, overview.Organizations, 2)

	// Sorted by name: "Beta Labs" precedes "Default Organization".
	assert.Equal(t, "Beta Labs", overview.Organizations[0].Name)
	assert.False(t, overview.Organizations[0].Internal)
	assert.True(t, overview.Organizations[1].Internal)
	assert.Equal(t, 1, overview.Organizations[1].ActiveMembers)
	assert.Equal(t, 1, overview.Organizations[0].ActiveMembers)

	assert.Equal(t, 107.0, overview.TotalCreditBalance)
	assert.Equal(t, 110.0, overview.TopUps.TotalTopUps)
	assert.Equal(t, 2, overview.TopUps.Count)
	assert.Equal(t, UsageSummary{
		TotalTokenCost: 1,
		TotalBilled:    3,
		TotalRequests:  2,
		NetRevenue:     2,
	}, overview.Usage)
}
