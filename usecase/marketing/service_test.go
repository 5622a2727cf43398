package marketing

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/objectstore"
)

func analyzedVIP() *domain.CustomerAnalyzedDetail {
	return &domain.CustomerAnalyzedDetail{
		CustomerID:         "cust_1234",
		CustomerType:       domain.CustomerRepeat,
		TotalPurchases:     6,
		TotalSpent:         domain.MustMoney("750.00"),
		PurchaseCategories: []string{"clothing", "electronics"},
	}
}

func TestBuildProfile(t *testing.T) {
	store, err := objectstore.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	service := NewService(store, nil)

	profile := service.Build(analyzedVIP())
	assert.Equal(t, domain.SegmentVIP, profile.Segment)
	assert.Equal(t, []string{"p1001", "p1002", "p1007", "p1008"}, profile.RecommendedProducts)
	assert.Equal(t, []string{
		domain.CampaignPremiumMemberDiscount,
		domain.CampaignLoyaltyRewards,
		domain.CampaignTechUpgrade,
	}, profile.EligibleCampaigns)
}

func TestExportWritesSnapshot(t *testing.T) {
	store, err := objectstore.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	service := NewService(store, nil)
	service.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, service.Export(context.Background(), analyzedVIP()))

	body, info, err := store.Get(context.Background(), "marketing/customer_cust_1234_20240501120000.json")
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "application/json", info.ContentType)

	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var profile domain.MarketingProfile
	require.NoError(t, json.Unmarshal(raw, &profile))
	assert.Equal(t, "cust_1234", profile.CustomerID)
	assert.Equal(t, domain.SegmentVIP, profile.Segment)
	assert.Equal(t, int64(6), profile.TotalPurchases)
}
