package controllers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"maven-analytics/internal/export"
	"maven-analytics/internal/middleware"
	"maven-analytics/internal/models"
	"maven-analytics/internal/services"
)

// tickerPattern accepts exchange symbols plus the BRK.B / BTC-USD styles.
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]{0,11}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
			return tickerPattern.MatchString(fl.Field().String())
		})
	}
}

// AnalysisController exposes the analyzers over HTTP. All endpoints are
// POST-with-body: analyses are pure functions of the submitted holdings, so
// no session state exists.
type AnalysisController struct {
	logger  *logrus.Logger
	service *services.AnalysisService
}

func NewAnalysisController(logger *logrus.Logger, service *services.AnalysisService) *AnalysisController {
	return &AnalysisController{
		logger:  logger,
		service: service,
	}
}

func (c *AnalysisController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/allocation", c.Allocation)
	r.POST("/fees", c.Fees)
	r.POST("/income", c.Income)
	r.POST("/overlap", c.Overlap)
	r.POST("/factors", c.Factors)
	r.POST("/benchmark", c.Benchmark)
	r.POST("/rebalancing", c.Rebalancing)
	r.POST("/rebalancing/export", c.RebalancingExport)
}

// HoldingRequest is one position in an analysis request. Negative or
// malformed numbers are clamped to zero rather than rejected; this is an
// advisory layer, not a transactional one.
type HoldingRequest struct {
	Ticker          string  `json:"ticker" binding:"required,ticker"`
	Shares          float64 `json:"shares"`
	CostBasis       float64 `json:"cost_basis"`
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	AccountName     string  `json:"account_name"`
	AccountType     string  `json:"account_type" binding:"omitempty,oneof=taxable tax_advantaged"`
	LongTermHolding bool    `json:"long_term_holding"`
}

// AnalysisRequest is the shared request body for the simple analyses.
type AnalysisRequest struct {
	Holdings []HoldingRequest `json:"holdings" binding:"required,dive"`
}

// BenchmarkRequest adds the investor age for the age-based reference.
type BenchmarkRequest struct {
	Holdings []HoldingRequest `json:"holdings" binding:"required,dive"`
	Age      int              `json:"age" binding:"omitempty,gte=1,lte=120"`
}

// TargetRequest is the core-five target allocation, percentages 0-100.
type TargetRequest struct {
	USEquity   float64 `json:"us_equity" binding:"gte=0,lte=100"`
	IntlEquity float64 `json:"intl_equity" binding:"gte=0,lte=100"`
	Bonds      float64 `json:"bonds" binding:"gte=0,lte=100"`
	Crypto     float64 `json:"crypto" binding:"gte=0,lte=100"`
	Cash       float64 `json:"cash" binding:"gte=0,lte=100"`
}

// OptionsRequest overrides the configured rebalancing defaults. Pointer
// fields distinguish "absent" from zero values.
type OptionsRequest struct {
	DriftThreshold      *float64 `json:"drift_threshold" binding:"omitempty,gte=0,lte=100"`
	TaxAware            *bool    `json:"tax_aware"`
	MinTradeAmount      *float64 `json:"min_trade_amount" binding:"omitempty,gte=0"`
	PreferTaxAdvantaged *bool    `json:"prefer_tax_advantaged"`
}

// RebalancingRequest carries holdings, target and optional tuning.
type RebalancingRequest struct {
	Holdings []HoldingRequest `json:"holdings" binding:"required,dive"`
	Target   TargetRequest    `json:"target" binding:"required"`
	Options  *OptionsRequest  `json:"options"`
}

// Allocation godoc
// @Summary Asset-class allocation
// @Description Classifies holdings into asset-class percentages, decomposing multi-asset funds
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalysisRequest true "Holdings"
// @Success 200 {object} models.AssetClassAllocation
// @Failure 400 {object} map[string]string
// @Router /api/analysis/allocation [post]
func (c *AnalysisController) Allocation(ctx *gin.Context) {
	holdings, ok := c.bindHoldings(ctx)
	if !ok {
		return
	}
	result, err := c.service.AnalyzeAllocation(ctx.Request.Context(), holdings)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	middleware.CountAnalysis("allocation")
	ctx.JSON(http.StatusOK, result)
}

// Fees godoc
// @Summary Portfolio fee analysis
// @Description Weighted expense ratio, 30-year fee drag and cheaper-substitute savings
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalysisRequest true "Holdings"
// @Success 200 {object} analytics.PortfolioFeeAnalysis
// @Failure 400 {object} map[string]string
// @Router /api/analysis/fees [post]
func (c *AnalysisController) Fees(ctx *gin.Context) {
	holdings, ok := c.bindHoldings(ctx)
	if !ok {
		return
	}
	result, err := c.service.AnalyzeFees(ctx.Request.Context(), holdings)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	middleware.CountAnalysis("fees")
	ctx.JSON(http.StatusOK, result)
}

// Income godoc
// @Summary Portfolio income projection
// @Description Annual, monthly and quarterly dividend/interest income
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalysisRequest true "Holdings"
// @Success 200 {object} analytics.PortfolioIncomeAnalysis
// @Failure 400 {object} map[string]string
// @Router /api/analysis/income [post]
func (c *AnalysisController) Income(ctx *gin.Context) {
	holdings, ok := c.bindHoldings(ctx)
	if !ok {
		return
	}
	result, err := c.service.AnalyzeIncome(ctx.Request.Context(), holdings)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	middleware.CountAnalysis("income")
	ctx.JSON(http.StatusOK, result)
}

// Overlap godoc
// @Summary Portfolio overlap detection
// @Description Redundant index exposure, consolidation targets and tax-loss opportunities
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalysisRequest true "Holdings"
// @Success 200 {object} analytics.PortfolioOverlapAnalysis
// @Failure 400 {object} map[string]string
// @Router /api/analysis/overlap [post]
func (c *AnalysisController) Overlap(ctx *gin.Context) {
	holdings, ok := c.bindHoldings(ctx)
	if !ok {
		return
	}
	result, err := c.service.AnalyzeOverlap(ctx.Request.Context(), holdings)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	middleware.CountAnalysis("overlap")
	ctx.JSON(http.StatusOK, result)
}

// Factors godoc
// @Summary Portfolio factor exposures
// @Description Value-weighted market beta, size, value, momentum and quality scores
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalysisRequest true "Holdings"
// @Success 200 {object} services.FactorAnalysis
// @Failure 400 {object} map[string]string
// @Router /api/analysis/factors [post]
func (c *AnalysisController) Factors(ctx *gin.Context) {
	holdings, ok := c.bindHoldings(ctx)
	if !ok {
		return
	}
	result, err := c.service.AnalyzeFactors(ctx.Request.Context(), holdings)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	middleware.CountAnalysis("factors")
	ctx.JSON(http.StatusOK, result)
}

// Benchmark godoc
// @Summary Benchmark comparison
// @Description Portfolio risk/return estimates next to S&P 500, 60/40 and age-based references
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body BenchmarkRequest true "Holdings and age"
// @Success 200 {object} analytics.BenchmarkComparison
// @Failure 400 {object} map[string]string
// @Router /api/analysis/benchmark [post]
func (c *AnalysisController) Benchmark(ctx *gin.Context) {
	var req BenchmarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := c.service.CompareBenchmarks(ctx.Request.Context(), toHoldings(req.Holdings), req.Age)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	middleware.CountAnalysis("benchmark")
	ctx.JSON(http.StatusOK, result)
}

// Rebalancing godoc
// @Summary Rebalancing preview
// @Description Advisory buy/sell trades moving the portfolio toward the target allocation
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body RebalancingRequest true "Holdings, target and options"
// @Success 200 {object} models.RebalancingPreview
// @Failure 400 {object} map[string]string
// @Router /api/analysis/rebalancing [post]
func (c *AnalysisController) Rebalancing(ctx *gin.Context) {
	preview, ok := c.computePreview(ctx)
	if !ok {
		return
	}
	middleware.CountAnalysis("rebalancing")
	ctx.JSON(http.StatusOK, preview)
}

// RebalancingExport godoc
// @Summary Rebalancing trade list export
// @Description Renders the rebalancing preview as CSV (default) or plain text via ?format=text
// @Tags analysis
// @Accept json
// @Produce plain
// @Param request body RebalancingRequest true "Holdings, target and options"
// @Param format query string false "csv or text" Enums(csv, text)
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Router /api/analysis/rebalancing/export [post]
func (c *AnalysisController) RebalancingExport(ctx *gin.Context) {
	preview, ok := c.computePreview(ctx)
	if !ok {
		return
	}

	switch ctx.DefaultQuery("format", "csv") {
	case "text":
		ctx.Data(http.StatusOK, "text/plain; charset=utf-8",
			[]byte(export.GenerateTradeListSummary(preview)))
	case "csv":
		body, err := export.GenerateTradeListCSV(preview)
		if err != nil {
			c.logger.WithError(err).Error("Trade list CSV rendering failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render trade list"})
			return
		}
		ctx.Header("Content-Disposition", `attachment; filename="rebalancing_trades.csv"`)
		ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or text"})
	}
}

func (c *AnalysisController) computePreview(ctx *gin.Context) (models.RebalancingPreview, bool) {
	var req RebalancingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.RebalancingPreview{}, false
	}

	target := models.TargetAllocation{
		USEquity:   decimal.NewFromFloat(req.Target.USEquity),
		IntlEquity: decimal.NewFromFloat(req.Target.IntlEquity),
		Bonds:      decimal.NewFromFloat(req.Target.Bonds),
		Crypto:     decimal.NewFromFloat(req.Target.Crypto),
		Cash:       decimal.NewFromFloat(req.Target.Cash),
	}
	if err := target.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.RebalancingPreview{}, false
	}

	options := c.service.DefaultRebalancingOptions()
	if req.Options != nil {
		if req.Options.DriftThreshold != nil {
			options.DriftThreshold = decimal.NewFromFloat(*req.Options.DriftThreshold)
		}
		if req.Options.TaxAware != nil {
			options.TaxAware = *req.Options.TaxAware
		}
		if req.Options.MinTradeAmount != nil {
			options.MinTradeAmount = decimal.NewFromFloat(*req.Options.MinTradeAmount)
		}
		if req.Options.PreferTaxAdvantaged != nil {
			options.PreferTaxAdvantaged = *req.Options.PreferTaxAdvantaged
		}
	}

	preview, err := c.service.PreviewRebalancing(ctx.Request.Context(), toHoldings(req.Holdings), target, options)
	if err != nil {
		c.fail(ctx, err)
		return models.RebalancingPreview{}, false
	}
	return preview, true
}

func (c *AnalysisController) bindHoldings(ctx *gin.Context) ([]models.Holding, bool) {
	var req AnalysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return toHoldings(req.Holdings), true
}

func (c *AnalysisController) fail(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrTooManyHoldings) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.logger.WithError(err).Error("Analysis failed")
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
}

// toHoldings converts request DTOs to domain holdings and clamps malformed
// values.
func toHoldings(reqs []HoldingRequest) []models.Holding {
	holdings := make([]models.Holding, 0, len(reqs))
	for _, r := range reqs {
		accountType := models.AccountType(r.AccountType)
		if accountType == "" {
			accountType = models.AccountTypeTaxable
		}
		holdings = append(holdings, models.Holding{
			Ticker:          r.Ticker,
			Shares:          decimal.NewFromFloat(r.Shares),
			CostBasis:       decimal.NewFromFloat(r.CostBasis),
			CurrentPrice:    decimal.NewFromFloat(r.CurrentPrice),
			CurrentValue:    decimal.NewFromFloat(r.CurrentValue),
			AccountName:     r.AccountName,
			AccountType:     accountType,
			LongTermHolding: r.LongTermHolding,
		})
	}
	return models.SanitizeHoldings(holdings)
}
