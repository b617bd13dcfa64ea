// Package access decides whether a requester may view content at a
// given tier. Entitlements are passed in explicitly so every check is a
// pure function over request data, never a read of ambient auth state.
package access

import "academy/backend/models"

// Entitlements captures which paid plans the requester holds, as
// reported by the identity provider for the current request. The zero
// value is a free user.
type Entitlements struct {
	Pro   bool
	Ultra bool
}

// EffectiveTier reduces held plans to a single subscription tier:
// ultra if held, else pro if held, else free.
func (e Entitlements) EffectiveTier() models.Tier {
	if e.Ultra {
		return models.TierUltra
	}
	if e.Pro {
		return models.TierPro
	}
	return models.TierFree
}

// HasAccess reports whether a requester with the given entitlements may
// view content at contentTier.
//
//   - Free content, or content with no tier set: accessible to everyone
//   - Pro content: requires the pro OR ultra plan (ultra upgrades pro)
//   - Ultra content: requires the ultra plan
//   - Any other tier value: denied
func HasAccess(e Entitlements, contentTier models.Tier) bool {
	if contentTier == "" || contentTier == models.TierFree {
		return true
	}
	if contentTier == models.TierUltra {
		return e.Ultra
	}
	if contentTier == models.TierPro {
		return e.Pro || e.Ultra
	}
	return false
}

// HasTierAccess is the reduced form of HasAccess used where only the
// requester's effective tier is known. For every entitlement set,
// HasTierAccess(e.EffectiveTier(), t) == HasAccess(e, t).
func HasTierAccess(userTier, contentTier models.Tier) bool {
	if contentTier == "" || contentTier == models.TierFree {
		return true
	}
	if contentTier == models.TierUltra {
		return userTier == models.TierUltra
	}
	if contentTier == models.TierPro {
		return userTier == models.TierPro || userTier == models.TierUltra
	}
	return false
}
