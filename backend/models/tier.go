package models

// Tier is the access level required to view a piece of content.
// Tiers are totally ordered: free < pro < ultra.
type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierUltra Tier = "ultra"
)
