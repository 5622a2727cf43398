package postgres

import "github.com/shoppulse/pipeline/domain"

// scanMoney parses a NUMERIC column selected as text. Keeping the value
// textual end to end avoids a float64 hop between the store and apd.
func scanMoney(raw string) (domain.Money, error) {
	if raw == "" {
		return domain.Money{}, nil
	}
	return domain.ParseMoney(raw)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}
