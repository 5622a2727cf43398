package domain

import (
	"sort"
	"time"
)

// Fulfillment center identifiers.
const (
	FulfillmentEast    = "fc_east_001"
	FulfillmentWest    = "fc_west_001"
	FulfillmentCentral = "fc_central_001"
)

var eastCoastStates = map[string]struct{}{
	"NY": {}, "NJ": {}, "PA": {}, "MA": {}, "CT": {}, "RI": {}, "NH": {}, "ME": {},
	"VT": {}, "DE": {}, "MD": {}, "VA": {}, "NC": {}, "SC": {}, "GA": {}, "FL": {},
}

var westCoastStates = map[string]struct{}{
	"CA": {}, "OR": {}, "WA": {}, "NV": {}, "AZ": {},
}

// AssignFulfillmentCenter maps a shipping state code to a fulfillment center.
// Unrecognized codes ship from the central region.
func AssignFulfillmentCenter(state string) string {
	if _, ok := eastCoastStates[state]; ok {
		return FulfillmentEast
	}
	if _, ok := westCoastStates[state]; ok {
		return FulfillmentWest
	}
	return FulfillmentCentral
}

// Campaign identifiers.
const (
	CampaignPremiumMemberDiscount = "premium_member_discount"
	CampaignLoyaltyRewards        = "loyalty_rewards"
	CampaignTechUpgrade           = "tech_upgrade"
	CampaignWelcomeDiscount       = "welcome_discount"
)

// MarketingProfile is the export generated from an analyzed customer.
type MarketingProfile struct {
	CustomerID          string    `json:"customer_id"`
	CustomerType        string    `json:"customer_type"`
	Segment             string    `json:"segment"`
	TotalSpent          Money     `json:"total_spent"`
	TotalPurchases      int64     `json:"total_purchases"`
	PurchaseCategories  []string  `json:"purchase_categories"`
	RecommendedProducts []string  `json:"recommended_products"`
	EligibleCampaigns   []string  `json:"eligible_campaigns"`
	UpdatedAt           time.Time `json:"last_updated"`
}

// EligibleCampaigns returns every campaign the customer qualifies for.
// The checks are independent; the result order is fixed for stable output.
func EligibleCampaigns(segment string, totalPurchases int64, categories []string) []string {
	var campaigns []string
	if segment == SegmentVIP {
		campaigns = append(campaigns, CampaignPremiumMemberDiscount)
	}
	if totalPurchases > 5 {
		campaigns = append(campaigns, CampaignLoyaltyRewards)
	}
	if containsCategory(categories, "electronics") {
		campaigns = append(campaigns, CampaignTechUpgrade)
	}
	if segment == SegmentNew {
		campaigns = append(campaigns, CampaignWelcomeDiscount)
	}
	return campaigns
}

var productsByCategory = map[string][]string{
	"clothing":    {"p1001", "p1002", "p1007"},
	"footwear":    {"p1003"},
	"accessories": {"p1004", "p1005", "p1006"},
	"electronics": {"p1008"},
}

// RecommendProducts maps purchase categories onto the catalog.
func RecommendProducts(categories []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, category := range categories {
		for _, product := range productsByCategory[category] {
			if _, ok := seen[product]; ok {
				continue
			}
			seen[product] = struct{}{}
			out = append(out, product)
		}
	}
	sort.Strings(out)
	return out
}

func containsCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}
