package entity_test

import (
	"testing"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFitsScale(t *testing.T) {
	cases := []struct {
		value  string
		places int32
		want   bool
	}{
		{"15", entity.QuantityScale, true},
		{"0.125", entity.QuantityScale, true},
		{"0.0004", entity.QuantityScale, false},
		{"8.25", entity.PriceScale, true},
		{"8.250", entity.PriceScale, true},
		{"8.255", entity.PriceScale, false},
		{"-1.5", entity.PriceScale, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, entity.FitsScale(decimal.RequireFromString(tc.value), tc.places), tc.value)
	}
}
