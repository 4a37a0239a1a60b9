// Package identity - usage.go implements the usage/billing aggregation: pure
// ledger summaries plus the platform overview, a read-only full scan over
// every organization. Fine at the expected scale of a handful of tenants; not
// built for high cardinality.
package identity

import (
	"math"
	"sort"

	"github.com/askbase/identity-store/internal/store/models"
)

// UsageSummary totals the consumption entries of a ledger. Top-ups are
// excluded; NetRevenue is billed minus provider token cost.
type UsageSummary struct {
	TotalTokenCost float64 `json:"totalTokenCost"`
	TotalBilled    float64 `json:"totalBilled"`
	TotalRequests  int     `json:"totalRequests"`
	NetRevenue     float64 `json:"netRevenue"`
}

// TopUpSummary totals the top-up entries of a ledger. TotalTopUps is the sum
// of absolute billed amounts regardless of the stored sign convention.
type TopUpSummary struct {
	TotalTopUps float64 `json:"totalTopUps"`
	Count       int     `json:"count"`
	LastTopUpAt string  `json:"lastTopUpAt,omitempty"`
}

// OrgOverview is one organization's row in the platform overview.
type OrgOverview struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	CreditBalance float64      `json:"creditBalance"`
	Internal      bool         `json:"internal"`
	ActiveMembers int          `json:"activeMembers"`
	TotalKeys     int          `json:"totalKeys"`
	Usage         UsageSummary `json:"usage"`
	TopUps        TopUpSummary `json:"topUps"`
}

// PlatformOverview folds every organization's summaries into platform totals.
type PlatformOverview struct {
	Organizations      []OrgOverview `json:"organizations"`
	TotalCreditBalance float64       `json:"totalCreditBalance"`
	Usage              UsageSummary  `json:"usage"`
	TopUps             TopUpSummary  `json:"topUps"`
}

// SummarizeUsageEntries sums the consumption entries of a ledger, skipping
// top-ups.
func SummarizeUsageEntries(entries []models.UsageEntry) UsageSummary {
	var sum UsageSummary
	for i := range entries {
		e := &entries[i]
		if e.IsTopUp() {
			continue
		}
		if e.TokenCost != nil {
			sum.TotalTokenCost += *e.TokenCost
		}
		sum.TotalBilled += e.BilledCost
		sum.TotalRequests += e.Requests
	}
	sum.NetRevenue = sum.TotalBilled - sum.TotalTokenCost
	return sum
}

// SummarizeTopUps sums the top-up entries of a ledger. Timestamps are RFC3339
// strings, so the latest one is simply the lexicographic maximum.
func SummarizeTopUps(entries []models.UsageEntry) TopUpSummary {
	var sum TopUpSummary
	for i := range entries {
		e := &entries[i]
		if !e.IsTopUp() {
			continue
		}
		sum.TotalTopUps += math.Abs(e.BilledCost)
		sum.Count++
		if e.Timestamp > sum.LastTopUpAt {
			sum.LastTopUpAt = e.Timestamp
		}
	}
	return sum
}

// OrgOverviewOf computes one organization's overview row.
func (s *Service) OrgOverviewOf(org *models.Organization) OrgOverview {
	return OrgOverview{
		ID:            org.ID,
		Name:          org.Name,
		Slug:          org.Slug,
		CreditBalance: org.CreditBalance,
		Internal:      s.cfg.Platform.IsInternalOrg(org.ID),
		ActiveMembers: org.ActiveMemberCount(),
		TotalKeys:     org.TotalKeyCount(),
		Usage:         SummarizeUsageEntries(org.Usage),
		TopUps:        SummarizeTopUps(org.Usage),
	}
}

// GetPlatformOverview computes per-organization summaries and folds them into
// platform-wide totals. Organizations are ordered by name for stable output.
func (s *Service) GetPlatformOverview() (*PlatformOverview, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	overview := &PlatformOverview{
		Organizations: make([]OrgOverview, 0, len(doc.Organizations)),
	}
	for _, org := range doc.Organizations {
		row := s.OrgOverviewOf(org)
		overview.Organizations = append(overview.Organizations, row)

		overview.TotalCreditBalance += row.CreditBalance
		overview.Usage.TotalTokenCost += row.Usage.TotalTokenCost
		overview.Usage.TotalBilled += row.Usage.TotalBilled
		overview.Usage.TotalRequests += row.Usage.TotalRequests
		overview.TopUps.TotalTopUps += row.TopUps.TotalTopUps
		overview.TopUps.Count += row.TopUps.Count
		if row.TopUps.LastTopUpAt > overview.TopUps.LastTopUpAt {
			overview.TopUps.LastTopUpAt = row.TopUps.LastTopUpAt
		}
	}
	overview.Usage.NetRevenue = overview.Usage.TotalBilled - overview.Usage.TotalTokenCost

	sort.Slice(overview.Organizations, func(i, j int) bool {
		return overview.Organizations[i].Name < overview.Organizations[j].Name
	})
	return overview, nil
}
