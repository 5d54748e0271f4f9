package history

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// priceItemRow элемент разбивки цены в колонке price_items (JSONB)
type priceItemRow struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

func encodePriceItems(items []domain.PriceItem) ([]byte, error) {
	rows := make([]priceItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, priceItemRow{
			Code:   item.Code,
			Label:  item.Label,
			Amount: item.Amount,
			Kind:   string(item.Kind),
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodePricing, err)
	}
	return data, nil
}

func decodePriceItems(data []byte) ([]domain.PriceItem, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var rows []priceItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	items := make([]domain.PriceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.PriceItem{
			Code:   row.Code,
			Label:  row.Label,
			Amount: row.Amount,
			Kind:   domain.PriceItemKind(row.Kind),
		})
	}
	return items, nil
}
