package catalog

import "github.com/shopspring/decimal"

type PriceReport struct {
	LocalID    string  `json:"local_id"`
	FudoID     string  `json:"fudo_id"`
	Name       string  `json:"nombre"`
	LocalPrice float64 `json:"precio_local"`
	FudoPrice  float64 `json:"precio_fudo"`
	Difference float64 `json:"diferencia"`
	Percentage float64 `json:"porcentaje"`
}

var hundred = decimal.NewFromInt(100)

// Report builds one price entry per synced pair, in comparison order.
func Report(comparison SyncComparisonResult) []PriceReport {
	out := make([]PriceReport, 0, len(comparison.Synced))
	for _, pair := range comparison.Synced {
		local := decimal.NewFromFloat(pair.LocalPrice)
		fudo := decimal.NewFromFloat(pair.FudoPrice)
		diff := fudo.Sub(local)

		out = append(out, PriceReport{
			LocalID:    pair.LocalID,
			FudoID:     pair.FudoID,
			Name:       pair.Name,
			LocalPrice: pair.LocalPrice,
			FudoPrice:  pair.FudoPrice,
			Difference: diff.InexactFloat64(),
			Percentage: percentage(local, fudo, diff),
		})
	}
	return out
}

// percentage is diff/local*100 rounded to two places. A zero local price
// yields 100 when the remote price is non-zero and 0 otherwise.
func percentage(local, fudo, diff decimal.Decimal) float64 {
	if local.IsZero() {
		if fudo.IsZero() {
			return 0
		}
		return 100
	}
	return diff.Div(local).Mul(hundred).Round(2).InexactFloat64()
}
