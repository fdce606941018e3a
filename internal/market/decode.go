package market

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/shopspring/decimal"
)

var candleFields = [6]string{"openTime", "open", "high", "low", "close", "volume"}

// DecodeCandles normalizes a JSON candle list into candles. Each row may be a
// kline array ([openTime, "open", "high", "low", "close", "volume", ...]) or an
// object keyed by field name; numbers may be JSON numbers or numeric strings.
// The result is validated before it is returned.
func DecodeCandles(body []byte) ([]model.Candle, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding candle list: %w", err)
	}

	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := decodeRow(i, row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}

	if err := Validate(candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func decodeRow(index int, row json.RawMessage) (model.Candle, error) {
	row = bytes.TrimSpace(row)
	if len(row) == 0 {
		return model.Candle{}, &MalformedCandleError{Index: index, Field: "row", Err: ErrShortRow}
	}

	var fields [6]json.RawMessage
	switch row[0] {
	case '[':
		var values []json.RawMessage
		if err := json.Unmarshal(row, &values); err != nil {
			return model.Candle{}, &MalformedCandleError{Index: index, Field: "row", Err: err}
		}
		if len(values) < len(fields) {
			return model.Candle{}, &MalformedCandleError{Index: index, Field: "row", Value: string(row), Err: ErrShortRow}
		}
		copy(fields[:], values)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(row, &obj); err != nil {
			return model.Candle{}, &MalformedCandleError{Index: index, Field: "row", Err: err}
		}
		for k, name := range candleFields {
			v, ok := obj[name]
			if !ok {
				return model.Candle{}, &MalformedCandleError{Index: index, Field: name, Err: ErrMissingField}
			}
			fields[k] = v
		}
	default:
		return model.Candle{}, &MalformedCandleError{Index: index, Field: "row", Value: string(row), Err: ErrShortRow}
	}

	openTime, err := ParseDecimal(fields[0])
	if err != nil {
		return model.Candle{}, &MalformedCandleError{Index: index, Field: candleFields[0], Value: string(fields[0]), Err: err}
	}

	var values [5]float64
	for k := 1; k < len(fields); k++ {
		d, err := ParseDecimal(fields[k])
		if err != nil {
			return model.Candle{}, &MalformedCandleError{Index: index, Field: candleFields[k], Value: string(fields[k]), Err: err}
		}
		values[k-1] = d.InexactFloat64()
	}

	return model.Candle{
		OpenTime: openTime.IntPart(),
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		Volume:   values[4],
	}, nil
}

// ParseDecimal reads a JSON number or numeric string.
func ParseDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, ErrNotNumeric
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrNotNumeric, err)
	}
	return d, nil
}
