package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maven-analytics/internal/calculator"
	"maven-analytics/internal/config"
	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
	"maven-analytics/pkg/cache"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		MaxHoldings:           500,
		DefaultDriftThreshold: 5.0,
		DefaultMinTradeAmount: 100.0,
		DefaultAge:            35,
	}
}

func testHoldings() []models.Holding {
	return []models.Holding{
		{Ticker: "VTI", CurrentValue: decimal.NewFromInt(60000)},
		{Ticker: "BND", CurrentValue: decimal.NewFromInt(40000)},
	}
}

func TestAnalysisService_CacheMiss(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(cache.ErrNotFound)
	mockCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, time.Minute).
		Return(nil)

	service := NewAnalysisService(registry.Default(), mockCache, testAnalysisConfig(), time.Minute, time.Minute)

	allocation, err := service.AnalyzeAllocation(context.Background(), testHoldings())

	require.NoError(t, err)
	assert.True(t, allocation.USEquity.Equal(decimal.NewFromInt(60)),
		"got %s", allocation.USEquity)
	assert.True(t, allocation.Bonds.Equal(decimal.NewFromInt(40)))
	mockCache.AssertExpectations(t)

	// Keys are namespaced per analysis kind.
	getCall := mockCache.Calls[0]
	assert.Contains(t, getCall.Arguments.String(1), "analysis:allocation:")
}

func TestAnalysisService_CacheHit(t *testing.T) {
	cached := models.AssetClassAllocation{USEquity: decimal.NewFromInt(42)}

	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.AssetClassAllocation)
			*dest = cached
		}).
		Return(nil)

	service := NewAnalysisService(registry.Default(), mockCache, testAnalysisConfig(), time.Minute, time.Minute)

	allocation, err := service.AnalyzeAllocation(context.Background(), testHoldings())

	require.NoError(t, err)
	assert.True(t, allocation.USEquity.Equal(decimal.NewFromInt(42)),
		"expected cached value, got %s", allocation.USEquity)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_CacheFailuresDegrade(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(assert.AnError)
	mockCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, time.Minute).
		Return(assert.AnError)

	service := NewAnalysisService(registry.Default(), mockCache, testAnalysisConfig(), time.Minute, time.Minute)

	allocation, err := service.AnalyzeAllocation(context.Background(), testHoldings())

	require.NoError(t, err)
	assert.True(t, allocation.USEquity.Equal(decimal.NewFromInt(60)))
}

func TestAnalysisService_NilCache(t *testing.T) {
	service := NewAnalysisService(registry.Default(), nil, testAnalysisConfig(), time.Minute, time.Minute)

	fees, err := service.AnalyzeFees(context.Background(), testHoldings())

	require.NoError(t, err)
	// VTI and BND both carry a 0.03% expense ratio on $100,000.
	assert.True(t, fees.TotalAnnualFees.Equal(decimal.NewFromInt(30)),
		"got %s", fees.TotalAnnualFees)
}

func TestAnalysisService_TooManyHoldings(t *testing.T) {
	cfg := testAnalysisConfig()
	cfg.MaxHoldings = 1

	mockCache := new(MockCache)
	service := NewAnalysisService(registry.Default(), mockCache, cfg, time.Minute, time.Minute)

	_, err := service.AnalyzeAllocation(context.Background(), testHoldings())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyHoldings)
	mockCache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_DefaultAge(t *testing.T) {
	service := NewAnalysisService(registry.Default(), nil, testAnalysisConfig(), time.Minute, time.Minute)

	comparison, err := service.CompareBenchmarks(context.Background(), testHoldings(), 0)

	require.NoError(t, err)
	require.Len(t, comparison.Benchmarks, 3)
	assert.Equal(t, "Age-Based (65/35)", comparison.Benchmarks[2].Name)
}

func TestAnalysisService_DefaultRebalancingOptions(t *testing.T) {
	cfg := testAnalysisConfig()
	cfg.DefaultDriftThreshold = 3.0
	cfg.DefaultMinTradeAmount = 250.0

	service := NewAnalysisService(registry.Default(), nil, cfg, time.Minute, time.Minute)
	options := service.DefaultRebalancingOptions()

	assert.True(t, options.DriftThreshold.Equal(decimal.NewFromInt(3)))
	assert.True(t, options.MinTradeAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, options.TaxAware)
	assert.True(t, options.PreferTaxAdvantaged)
}

func TestAnalysisService_PreviewRebalancing(t *testing.T) {
	service := NewAnalysisService(registry.Default(), nil, testAnalysisConfig(), time.Minute, time.Minute)

	target := models.TargetAllocation{
		USEquity: decimal.NewFromInt(50),
		Bonds:    decimal.NewFromInt(50),
	}
	preview, err := service.PreviewRebalancing(
		context.Background(), testHoldings(), target, calculator.DefaultRebalancingOptions())

	require.NoError(t, err)
	assert.True(t, preview.RebalancingNeeded)
	require.Len(t, preview.Trades, 2)
	assert.Equal(t, models.TradeActionSell, preview.Trades[0].Action)
	assert.Equal(t, models.TradeActionBuy, preview.Trades[1].Action)
}

func TestRequestDigest(t *testing.T) {
	first := []models.Holding{
		{Ticker: "VTI", CurrentValue: decimal.NewFromInt(60000)},
		{Ticker: "BND", CurrentValue: decimal.NewFromInt(40000)},
	}
	reversed := []models.Holding{
		{Ticker: "BND", CurrentValue: decimal.NewFromInt(40000)},
		{Ticker: "VTI", CurrentValue: decimal.NewFromInt(60000)},
	}

	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t, requestDigest(first, nil), requestDigest(reversed, nil))
	})

	t.Run("holdings change the digest", func(t *testing.T) {
		changed := []models.Holding{
			{Ticker: "VTI", CurrentValue: decimal.NewFromInt(60001)},
			{Ticker: "BND", CurrentValue: decimal.NewFromInt(40000)},
		}
		assert.NotEqual(t, requestDigest(first, nil), requestDigest(changed, nil))
	})

	t.Run("params change the digest", func(t *testing.T) {
		assert.NotEqual(t,
			requestDigest(first, []string{"age=35"}),
			requestDigest(first, []string{"age=40"}))
	})
}
