package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetClassAllocation_CoreAllocation(t *testing.T) {
	allocation := AssetClassAllocation{
		USEquity:     decimal.NewFromInt(40),
		IntlEquity:   decimal.NewFromInt(20),
		Bonds:        decimal.NewFromInt(20),
		REITs:        decimal.NewFromInt(10),
		Gold:         decimal.NewFromInt(5),
		Alternatives: decimal.NewFromInt(5),
	}

	core := allocation.CoreAllocation()

	// Satellite classes fold into US equity.
	assert.True(t, core.USEquity.Equal(decimal.NewFromInt(60)), "got %s", core.USEquity)
	assert.True(t, core.IntlEquity.Equal(decimal.NewFromInt(20)))
	assert.True(t, core.Bonds.Equal(decimal.NewFromInt(20)))
	assert.True(t, core.Sum().Equal(decimal.NewFromInt(100)))
}

func TestTargetAllocation_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		target := TargetAllocation{
			USEquity:   decimal.NewFromInt(60),
			IntlEquity: decimal.NewFromInt(20),
			Bonds:      decimal.NewFromInt(20),
		}
		assert.NoError(t, target.Validate())
	})

	t.Run("must sum to 100", func(t *testing.T) {
		target := TargetAllocation{USEquity: decimal.NewFromInt(90)}
		err := target.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum to 100")
	})

	t.Run("class out of range", func(t *testing.T) {
		target := TargetAllocation{
			USEquity: decimal.NewFromInt(110),
			Bonds:    decimal.NewFromInt(-10),
		}
		err := target.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 100")
	})
}

func TestHolding_Sanitize(t *testing.T) {
	t.Run("negative values clamp to zero", func(t *testing.T) {
		h := Holding{
			Ticker:       " vti ",
			Shares:       decimal.NewFromInt(-5),
			CurrentValue: decimal.NewFromInt(-100),
		}
		h.Sanitize()

		assert.Equal(t, "VTI", h.NormalizedTicker())
		assert.True(t, h.Shares.IsZero())
		assert.True(t, h.CurrentValue.IsZero())
	})

	t.Run("value falls back to shares times price", func(t *testing.T) {
		h := Holding{
			Ticker:       "VOO",
			Shares:       decimal.NewFromInt(10),
			CurrentPrice: decimal.NewFromInt(500),
		}
		assert.True(t, h.Value().Equal(decimal.NewFromInt(5000)))
	})

	t.Run("unrealized gain", func(t *testing.T) {
		h := Holding{
			Ticker:       "SPY",
			CurrentValue: decimal.NewFromInt(40000),
			CostBasis:    decimal.NewFromInt(50000),
		}
		assert.True(t, h.UnrealizedGain().Equal(decimal.NewFromInt(-10000)))
	})
}
