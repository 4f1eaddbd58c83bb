// Package pricing selects a customer's applicable time-windowed pricing
// configuration and derives the quotation coefficient from it. Everything
// here is pure; the store never appears below this line.
package pricing

import (
	"fmt"
	"math"
)

// Service fee base choices.
const (
	ServiceFeePreDiscount  = "preDiscount"
	ServiceFeePostDiscount = "postDiscount"
)

// Tax calculation base choices. An empty base means no tax is applied.
const (
	TaxBaseDiscounted            = "discounted"
	TaxBaseDiscountedPlusService = "discountedPlusService"
)

// Fallback tiers reported by Resolve so callers can audit which rule fired.
const (
	TierWindow    = "window"
	TierPermanent = "permanent"
	TierFirst     = "first"
)

// Config is one time-windowed pricing configuration on a customer record.
type Config struct {
	ID                  string  `bson:"id" json:"id"`
	ValidFrom           string  `bson:"validFrom,omitempty" json:"validFrom,omitempty"` // YYYY-MM-01
	ValidTo             string  `bson:"validTo,omitempty" json:"validTo,omitempty"`     // YYYY-MM-01
	Permanent           bool    `bson:"permanent,omitempty" json:"permanent,omitempty"`
	DiscountRate        float64 `bson:"discountRate" json:"discountRate"` // fraction taken off
	PlatformFeeRate     float64 `bson:"platformFeeRate" json:"platformFeeRate"`
	IncludesPlatformFee bool    `bson:"includesPlatformFee" json:"includesPlatformFee"`
	ServiceFeeRate      float64 `bson:"serviceFeeRate" json:"serviceFeeRate"`
	ServiceFeeBase      string  `bson:"serviceFeeBase" json:"serviceFeeBase"`
	TaxRate             float64 `bson:"taxRate,omitempty" json:"taxRate,omitempty"`
	TaxCalculationBase  string  `bson:"taxCalculationBase,omitempty" json:"taxCalculationBase,omitempty"`
	PricingMode         string  `bson:"pricingMode,omitempty" json:"pricingMode,omitempty"`
}

// Selection is the outcome of Resolve: the configuration actually used and
// the tier that produced it.
type Selection struct {
	Config      *Config `json:"config"`
	Tier        string  `json:"tier"`
	Coefficient float64 `json:"quotationCoefficient"`
}

// PeriodKey builds the comparable period key for a fiscal year and month.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d-01", year, month)
}

// Resolve picks the applicable configuration for the project's fiscal
// period. Tier order: a window containing the period key, then a config
// flagged permanent, then the first config in the list. The last tier is
// degraded behavior kept from the legacy system; it is surfaced, not
// masked. Returns nil when the customer has no configurations at all.
func Resolve(configs []Config, year, month int) *Selection {
	if len(configs) == 0 {
		return nil
	}

	key := PeriodKey(year, month)
	for i := range configs {
		c := &configs[i]
		if c.ValidFrom != "" && c.ValidTo != "" && c.ValidFrom <= key && key <= c.ValidTo {
			return &Selection{Config: c, Tier: TierWindow, Coefficient: Coefficient(*c)}
		}
	}

	for i := range configs {
		if configs[i].Permanent {
			return &Selection{Config: &configs[i], Tier: TierPermanent, Coefficient: Coefficient(configs[i])}
		}
	}

	return &Selection{Config: &configs[0], Tier: TierFirst, Coefficient: Coefficient(configs[0])}
}

// notionalBase is the fixed amount the coefficient is computed against. Its
// magnitude cancels out in the final division.
const notionalBase = 10_000.0

// Coefficient derives the dimensionless quotation coefficient from a
// configuration, rounded to 5 decimal digits.
//
// IncludesPlatformFee controls fee-then-discount (the discount also applies
// to the fee) versus discount-then-fee (the fee is added undiscounted).
// ServiceFeeBase picks the pre- or post-discount base for the service fee,
// TaxCalculationBase the discounted or discounted-plus-service base for tax.
func Coefficient(cfg Config) float64 {
	var discounted float64
	if cfg.IncludesPlatformFee {
		discounted = notionalBase * (1 + cfg.PlatformFeeRate) * (1 - cfg.DiscountRate)
	} else {
		discounted = notionalBase*(1-cfg.DiscountRate) + notionalBase*cfg.PlatformFeeRate
	}

	serviceBase := notionalBase
	if cfg.ServiceFeeBase == ServiceFeePostDiscount {
		serviceBase = discounted
	}
	service := serviceBase * cfg.ServiceFeeRate

	var tax float64
	switch cfg.TaxCalculationBase {
	case TaxBaseDiscounted:
		tax = discounted * cfg.TaxRate
	case TaxBaseDiscountedPlusService:
		tax = (discounted + service) * cfg.TaxRate
	}

	return round5((discounted + service + tax) / notionalBase)
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
