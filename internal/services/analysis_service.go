package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"maven-analytics/internal/analytics"
	"maven-analytics/internal/calculator"
	"maven-analytics/internal/config"
	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
	"maven-analytics/pkg/cache"
	"maven-analytics/pkg/logger"
)

// ErrTooManyHoldings is returned when a request exceeds the configured
// holding limit.
var ErrTooManyHoldings = errors.New("too many holdings in request")

// CacheInterface is the slice of the cache client the service uses,
// narrowed for testing with mocks.
type CacheInterface interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FactorAnalysis pairs the computed exposures with their interpretation.
type FactorAnalysis struct {
	Exposures      models.FactorExposures         `json:"exposures"`
	Interpretation analytics.FactorInterpretation `json:"interpretation"`
}

// AnalysisService orchestrates the analyzers behind a cache-aside layer.
// Every analysis is pure, so results are cached under a digest of the
// canonicalized request; cache failures degrade to recomputing.
type AnalysisService struct {
	registry   *registry.Registry
	classifier *analytics.Classifier
	factors    *analytics.FactorAnalyzer
	fees       *analytics.FeeAnalyzer
	income     *analytics.IncomeAnalyzer
	overlap    *analytics.OverlapAnalyzer
	benchmark  *analytics.BenchmarkComparator
	rebalancer *calculator.RebalancingCalculator
	cache      CacheInterface
	cfg        config.AnalysisConfig
	ttl        time.Duration
	rebalTTL   time.Duration
	logger     *logrus.Entry
}

// NewAnalysisService wires the analyzers around a shared registry. The
// cache may be nil, in which case every request computes directly.
// Rebalancing previews cache under their own, typically shorter, TTL.
func NewAnalysisService(reg *registry.Registry, cacheClient CacheInterface, cfg config.AnalysisConfig, ttl, rebalTTL time.Duration) *AnalysisService {
	return &AnalysisService{
		registry:   reg,
		classifier: analytics.NewClassifier(reg),
		factors:    analytics.NewFactorAnalyzer(reg),
		fees:       analytics.NewFeeAnalyzer(reg),
		income:     analytics.NewIncomeAnalyzer(reg),
		overlap:    analytics.NewOverlapAnalyzer(reg),
		benchmark:  analytics.NewBenchmarkComparator(reg),
		rebalancer: calculator.NewRebalancingCalculator(reg),
		cache:      cacheClient,
		cfg:        cfg,
		ttl:        ttl,
		rebalTTL:   rebalTTL,
		logger:     logger.WithComponent("analysis_service"),
	}
}

// AnalyzeAllocation classifies holdings into asset-class percentages.
func (s *AnalysisService) AnalyzeAllocation(ctx context.Context, holdings []models.Holding) (models.AssetClassAllocation, error) {
	var result models.AssetClassAllocation
	err := s.withCache(ctx, "allocation", holdings, nil, &result, func() interface{} {
		return s.classifier.PortfolioAllocation(holdings)
	})
	return result, err
}

// AnalyzeFees runs the fee analysis.
func (s *AnalysisService) AnalyzeFees(ctx context.Context, holdings []models.Holding) (analytics.PortfolioFeeAnalysis, error) {
	var result analytics.PortfolioFeeAnalysis
	err := s.withCache(ctx, "fees", holdings, nil, &result, func() interface{} {
		return s.fees.AnalyzePortfolioFees(holdings)
	})
	return result, err
}

// AnalyzeIncome runs the income projection.
func (s *AnalysisService) AnalyzeIncome(ctx context.Context, holdings []models.Holding) (analytics.PortfolioIncomeAnalysis, error) {
	var result analytics.PortfolioIncomeAnalysis
	err := s.withCache(ctx, "income", holdings, nil, &result, func() interface{} {
		return s.income.AnalyzePortfolioIncome(holdings)
	})
	return result, err
}

// AnalyzeOverlap runs the redundancy detection.
func (s *AnalysisService) AnalyzeOverlap(ctx context.Context, holdings []models.Holding) (analytics.PortfolioOverlapAnalysis, error) {
	var result analytics.PortfolioOverlapAnalysis
	err := s.withCache(ctx, "overlap", holdings, nil, &result, func() interface{} {
		return s.overlap.AnalyzePortfolioOverlap(holdings)
	})
	return result, err
}

// AnalyzeFactors computes factor exposures plus their interpretation.
func (s *AnalysisService) AnalyzeFactors(ctx context.Context, holdings []models.Holding) (FactorAnalysis, error) {
	var result FactorAnalysis
	err := s.withCache(ctx, "factors", holdings, nil, &result, func() interface{} {
		exposures := s.factors.CalculatePortfolioFactorExposures(holdings)
		return FactorAnalysis{
			Exposures:      exposures,
			Interpretation: s.factors.GetFactorInterpretation(exposures),
		}
	})
	return result, err
}

// CompareBenchmarks evaluates the portfolio against the fixed references.
// A non-positive age falls back to the configured default.
func (s *AnalysisService) CompareBenchmarks(ctx context.Context, holdings []models.Holding, age int) (analytics.BenchmarkComparison, error) {
	if age <= 0 {
		age = s.cfg.DefaultAge
	}
	var result analytics.BenchmarkComparison
	params := fmt.Sprintf("age=%d", age)
	err := s.withCache(ctx, "benchmark", holdings, []string{params}, &result, func() interface{} {
		return s.benchmark.ComparePortfolio(holdings, age)
	})
	return result, err
}

// PreviewRebalancing generates the advisory trade list.
func (s *AnalysisService) PreviewRebalancing(
	ctx context.Context,
	holdings []models.Holding,
	target models.TargetAllocation,
	options calculator.RebalancingOptions,
) (models.RebalancingPreview, error) {
	var result models.RebalancingPreview
	params := []string{
		fmt.Sprintf("target=%s/%s/%s/%s/%s",
			target.USEquity.String(), target.IntlEquity.String(), target.Bonds.String(),
			target.Crypto.String(), target.Cash.String()),
		fmt.Sprintf("opts=%s/%t/%s/%t",
			options.DriftThreshold.String(), options.TaxAware,
			options.MinTradeAmount.String(), options.PreferTaxAdvantaged),
	}
	err := s.withCache(ctx, "rebalancing", holdings, params, &result, func() interface{} {
		return s.rebalancer.CalculateRebalancingTrades(holdings, target, options)
	})
	return result, err
}

// DefaultRebalancingOptions exposes the configured defaults for requests
// that omit options.
func (s *AnalysisService) DefaultRebalancingOptions() calculator.RebalancingOptions {
	options := calculator.DefaultRebalancingOptions()
	options.DriftThreshold = decimal.NewFromFloat(s.cfg.DefaultDriftThreshold)
	options.MinTradeAmount = decimal.NewFromFloat(s.cfg.DefaultMinTradeAmount)
	return options
}

// withCache runs the cache-aside pattern around one analysis. The compute
// result is marshaled into dest through the cache codec on a hit; on a miss
// the computed value is stored best-effort and copied into dest.
func (s *AnalysisService) withCache(
	ctx context.Context,
	kind string,
	holdings []models.Holding,
	params []string,
	dest interface{},
	compute func() interface{},
) error {
	if len(holdings) > s.cfg.MaxHoldings {
		return fmt.Errorf("%w: %d holdings exceeds limit of %d",
			ErrTooManyHoldings, len(holdings), s.cfg.MaxHoldings)
	}

	key := fmt.Sprintf("analysis:%s:%s", kind, requestDigest(holdings, params))

	if s.cache != nil {
		err := s.cache.Get(ctx, key, dest)
		if err == nil {
			return nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.WithError(err).WithField("key", key).Warn("Cache read failed, computing directly")
		}
	}

	result := compute()

	if s.cache != nil {
		ttl := s.ttl
		if kind == "rebalancing" && s.rebalTTL > 0 {
			ttl = s.rebalTTL
		}
		if err := s.cache.Set(ctx, key, result, ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}

	return assign(dest, result)
}

// assign copies the computed value into the caller's typed destination.
func assign(dest, value interface{}) error {
	switch d := dest.(type) {
	case *models.AssetClassAllocation:
		d2, ok := value.(models.AssetClassAllocation)
		if !ok {
			return fmt.Errorf("unexpected allocation result type %T", value)
		}
		*d = d2
	case *analytics.PortfolioFeeAnalysis:
		d2, ok := value.(analytics.PortfolioFeeAnalysis)
		if !ok {
			return fmt.Errorf("unexpected fee result type %T", value)
		}
		*d = d2
	case *analytics.PortfolioIncomeAnalysis:
		d2, ok := value.(analytics.PortfolioIncomeAnalysis)
		if !ok {
			return fmt.Errorf("unexpected income result type %T", value)
		}
		*d = d2
	case *analytics.PortfolioOverlapAnalysis:
		d2, ok := value.(analytics.PortfolioOverlapAnalysis)
		if !ok {
			return fmt.Errorf("unexpected overlap result type %T", value)
		}
		*d = d2
	case *FactorAnalysis:
		d2, ok := value.(FactorAnalysis)
		if !ok {
			return fmt.Errorf("unexpected factor result type %T", value)
		}
		*d = d2
	case *analytics.BenchmarkComparison:
		d2, ok := value.(analytics.BenchmarkComparison)
		if !ok {
			return fmt.Errorf("unexpected benchmark result type %T", value)
		}
		*d = d2
	case *models.RebalancingPreview:
		d2, ok := value.(models.RebalancingPreview)
		if !ok {
			return fmt.Errorf("unexpected rebalancing result type %T", value)
		}
		*d = d2
	default:
		return fmt.Errorf("unsupported analysis destination type %T", dest)
	}
	return nil
}

// requestDigest builds a deterministic SHA-256 digest over the canonical
// form of the holdings plus any extra parameters. Holding order does not
// affect the digest.
func requestDigest(holdings []models.Holding, params []string) string {
	lines := make([]string, 0, len(holdings)+len(params))
	for i := range holdings {
		h := &holdings[i]
		lines = append(lines, strings.Join([]string{
			h.NormalizedTicker(),
			h.Shares.String(),
			h.CostBasis.String(),
			h.CurrentPrice.String(),
			h.CurrentValue.String(),
			h.AccountName,
			string(h.AccountType),
			fmt.Sprintf("%t", h.LongTermHolding),
		}, "|"))
	}
	sort.Strings(lines)
	lines = append(lines, params...)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
