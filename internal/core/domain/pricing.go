package domain

const (
	taxRatePercent = 18

	// Orders strictly above this subtotal ship free; at or below it the
	// flat rate applies.
	freeShippingAbove Amount = 40000
	flatShippingFee   Amount = 4999
)

// PricedLine is the pricing calculator's view of one cart line.
type PricedLine struct {
	UnitPrice Amount
	Quantity  int
}

// Totals is a full billing breakdown for a set of lines.
type Totals struct {
	Subtotal   Amount
	Tax        Amount
	Shipping   Amount
	GrandTotal Amount
}

// Quote computes the billing totals for the given lines. It is the single
// source of truth for monetary totals: the cart summary and the amount
// frozen into an order at checkout both come from here.
func Quote(lines []PricedLine) Totals {
	var subtotal Amount
	for _, l := range lines {
		subtotal += l.UnitPrice * Amount(l.Quantity)
	}

	// 18% tax rounded half-up to the nearest whole unit.
	tax := Amount((int64(subtotal)*taxRatePercent + 50) / 100)

	var shipping Amount
	if subtotal <= freeShippingAbove {
		shipping = flatShippingFee
	}

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: subtotal + tax + shipping,
	}
}
