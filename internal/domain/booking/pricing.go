package booking

// PricingStrategy defines the interface for pricing a draft.
type PricingStrategy interface {
	// Calculate returns the price breakdown for the draft. It has no side effects.
	Calculate(draft BookingDraft) PricingResult
}

// PricingConfig holds the fixed surcharges.
type PricingConfig struct {
	ConservatorySurcharge Money
	ExtensionSurcharge    Money
}

// DefaultPricingConfig returns the standard surcharges.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ConservatorySurcharge: 500, // £5.00
		ExtensionSurcharge:    500, // £5.00
	}
}

// StandardPricingStrategy implements the window-cleaning price list.
type StandardPricingStrategy struct {
	cfg PricingConfig
}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy(cfg PricingConfig) *StandardPricingStrategy {
	return &StandardPricingStrategy{cfg: cfg}
}

// Calculate computes the price breakdown in pence.
//
// Pricing formula:
//   - Custom quotes and enquiries are unpriced and get a zero breakdown
//   - Base: the residential service price
//   - Conservatory and extension surcharges when the property has them
//   - Gutter clearing and fascia/soffit/gutter cleaning at their listed price
//   - Conservatory roof cleaning is quoted separately and adds nothing
//   - Discount: the base price is waived when both gutter add-ons are taken
//     on a regular (non one-off) clean
func (s *StandardPricingStrategy) Calculate(draft BookingDraft) PricingResult {
	if !draft.IsStandardResidential() {
		return PricingResult{}
	}
	base := draft.BasePrice()
	subtotal := base

	var result PricingResult
	if draft.Features.HasConservatory {
		result.ConservatorySurcharge = s.cfg.ConservatorySurcharge.NonNegative()
		subtotal += result.ConservatorySurcharge
	}
	if draft.Features.HasExtension {
		result.ExtensionSurcharge = s.cfg.ExtensionSurcharge.NonNegative()
		subtotal += result.ExtensionSurcharge
	}

	if draft.AddOns.GutterClearing.Selected {
		subtotal += draft.AddOns.GutterClearing.Price.NonNegative()
	}
	if draft.AddOns.FasciaSoffitGutter.Selected {
		subtotal += draft.AddOns.FasciaSoffitGutter.Price.NonNegative()
	}

	result.SubtotalBeforeDiscount = subtotal
	result.Discount = bundleDiscount(draft, base)
	result.GrandTotal = (subtotal - result.Discount).NonNegative()
	return result
}

// bundleDiscount returns the base price when the gutter bundle applies.
func bundleDiscount(draft BookingDraft, base Money) Money {
	if base <= 0 || draft.Service == nil {
		return 0
	}
	if !draft.AddOns.GutterClearing.Selected || !draft.AddOns.FasciaSoffitGutter.Selected {
		return 0
	}
	if draft.Service.Frequency == FrequencyAdhoc {
		return 0
	}
	return base
}

// AffectsPrice reports whether an update can change the price breakdown.
func AffectsPrice(u Update) bool {
	switch u.(type) {
	case SetBookingKind, SetService, SetPropertyFeatures, SetAddOn:
		return true
	}
	return false
}
