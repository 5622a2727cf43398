package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignFulfillmentCenter(t *testing.T) {
	assert.Equal(t, FulfillmentEast, AssignFulfillmentCenter("NY"))
	assert.Equal(t, FulfillmentEast, AssignFulfillmentCenter("FL"))
	assert.Equal(t, FulfillmentWest, AssignFulfillmentCenter("CA"))
	assert.Equal(t, FulfillmentWest, AssignFulfillmentCenter("AZ"))
	assert.Equal(t, FulfillmentCentral, AssignFulfillmentCenter("TX"))
	assert.Equal(t, FulfillmentCentral, AssignFulfillmentCenter("IL"))
	assert.Equal(t, FulfillmentCentral, AssignFulfillmentCenter(""))
}

func TestEligibleCampaigns(t *testing.T) {
	got := EligibleCampaigns(SegmentVIP, 6, []string{"electronics"})
	assert.Equal(t, []string{CampaignPremiumMemberDiscount, CampaignLoyaltyRewards, CampaignTechUpgrade}, got)

	got = EligibleCampaigns(SegmentNew, 1, []string{"clothing"})
	assert.Equal(t, []string{CampaignWelcomeDiscount}, got)

	// Exactly 5 purchases does not qualify for loyalty rewards.
	got = EligibleCampaigns(SegmentLoyal, 5, nil)
	assert.Empty(t, got)
}

func TestRecommendProducts(t *testing.T) {
	got := RecommendProducts([]string{"clothing", "footwear"})
	assert.Equal(t, []string{"p1001", "p1002", "p1003", "p1007"}, got)

	assert.Empty(t, RecommendProducts([]string{"groceries"}))
	assert.Empty(t, RecommendProducts(nil))
}
