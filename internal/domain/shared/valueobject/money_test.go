package valueobject

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatEUR(t *testing.T) {
	t.Run("french separators and euro sign", func(t *testing.T) {
		s := FormatEUR(decimal.RequireFromString("1234.56"))
		assert.True(t, strings.HasPrefix(s, "1"))
		assert.Contains(t, s, "234,56")
		assert.True(t, strings.HasSuffix(s, " €"))
	})

	t.Run("rounds to cents only when displayed", func(t *testing.T) {
		ttc := decimal.RequireFromString("1234.56").Mul(decimal.RequireFromString("1.2"))
		assert.Equal(t, "1481.472", ttc.String())
		assert.Contains(t, FormatEUR(ttc), "481,47")
		assert.Contains(t, FormatEUR(decimal.RequireFromString("0.125")), "0,13")
	})

	t.Run("credit note keeps its sign", func(t *testing.T) {
		s := FormatEUR(decimal.RequireFromString("-50"))
		assert.Contains(t, s, "50,00")
		assert.NotEqual(t, FormatEUR(decimal.NewFromInt(50)), s)
	})

	assert.Equal(t, "0,00 €", FormatEUR(decimal.Zero))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "40,0 %", FormatPercent(decimal.NewFromInt(40)))
	assert.Equal(t, "33,3 %", FormatPercent(decimal.NewFromInt(100).Div(decimal.NewFromInt(3))))
}
