package service

import (
	"context"
	"database/sql"
	"fmt"
	"pricehistory/internal/db/models/postgres/public/model"
	"pricehistory/internal/domain"
	"pricehistory/internal/logger"
	"pricehistory/internal/repository"
	"pricehistory/pkg/coingecko"
	"time"

	"github.com/shopspring/decimal"
)

const defaultQuoteCode = "USD"
const defaultLookbackDays = 365

type GetHistoryInput struct {
	Symbol string
	Quote  string
	// Start and End default to a 365-day window ending today (UTC) when
	// unset.
	Start *time.Time
	End   *time.Time
}

type HistoryService interface {
	GetHistory(ctx context.Context, input GetHistoryInput) (*domain.History, error)
}

type historyServiceHandler struct {
	Db                   *sql.DB
	AssetRepository      repository.AssetRepository
	QuoteRepository      repository.QuoteRepository
	AssetPriceRepository repository.AssetPriceRepository
	SymbolResolver       SymbolResolver
	CoinGecko            coingecko.Client
}

func NewHistoryService(
	db *sql.DB,
	assetRepository repository.AssetRepository,
	quoteRepository repository.QuoteRepository,
	assetPriceRepository repository.AssetPriceRepository,
	symbolResolver SymbolResolver,
	coinGecko coingecko.Client,
) HistoryService {
	return historyServiceHandler{
		Db:                   db,
		AssetRepository:      assetRepository,
		QuoteRepository:      quoteRepository,
		AssetPriceRepository: assetPriceRepository,
		SymbolResolver:       symbolResolver,
		CoinGecko:            coinGecko,
	}
}

// GetHistory serves the write-through cycle: resolve the asset and quote,
// read persisted points for the range, fetch only the missing sub-ranges
// from upstream, persist them, and return the merged ordered series.
func (h historyServiceHandler) GetHistory(ctx context.Context, input GetHistoryInput) (*domain.History, error) {
	r, err := requestedRange(input)
	if err != nil {
		return nil, err
	}

	asset, err := h.resolveAsset(ctx, input.Symbol)
	if err != nil {
		return nil, err
	}

	quoteCode := input.Quote
	if quoteCode == "" {
		quoteCode = defaultQuoteCode
	}
	quote, err := h.QuoteRepository.GetOrCreate(quoteCode)
	if err != nil {
		return nil, err
	}

	have, err := h.AssetPriceRepository.List(asset.AssetID, quote.QuoteID, r)
	if err != nil {
		return nil, err
	}

	filledFromUpstream := false
	for _, gap := range domain.ComputeGaps(have, r) {
		// a failed gap fetch fails the whole request - a partial series
		// must never be reported as complete
		if err := h.fillGap(ctx, asset, quote, gap, have); err != nil {
			return nil, err
		}
		filledFromUpstream = true
	}

	return &domain.History{
		Symbol:             asset.Symbol,
		Quote:              quote.Code,
		Range:              r,
		Source:             coingecko.Source,
		Prices:             assemble(have, r, quote.Decimals),
		FilledFromUpstream: filledFromUpstream,
	}, nil
}

// requestedRange applies defaults and rejects inverted ranges before any
// store or network access.
func requestedRange(input GetHistoryInput) (domain.DateRange, error) {
	end := domain.Day(time.Now().UTC())
	if input.End != nil {
		end = domain.Day(*input.End)
	}

	start := end.AddDate(0, 0, -defaultLookbackDays)
	if input.Start != nil {
		start = domain.Day(*input.Start)
	}

	r := domain.DateRange{Start: start, End: end}
	if !r.Valid() {
		return domain.DateRange{}, domain.ErrInvalidRange
	}

	return r, nil
}

// resolveAsset looks the symbol up in the store and provisions a new
// asset record via the resolver on first sight.
func (h historyServiceHandler) resolveAsset(ctx context.Context, symbol string) (*model.Asset, error) {
	asset, err := h.AssetRepository.GetBySymbol(symbol)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		return asset, nil
	}

	resolved, err := h.SymbolResolver.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	asset, err = h.AssetRepository.GetOrCreate(nil, model.Asset{
		Symbol:      resolved.Symbol,
		Name:        resolved.Name,
		CoingeckoID: resolved.CoinID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("provisioned new asset %s (%s)", asset.Symbol, asset.CoingeckoID)
	return asset, nil
}

func (h historyServiceHandler) fillGap(ctx context.Context, asset *model.Asset, quote *model.Quote, gap domain.DateRange, have map[string]float64) error {
	points, err := h.CoinGecko.FetchRange(ctx, asset.CoingeckoID, quote.Code, gap)
	if err != nil {
		return fmt.Errorf("failed to fill %s/%s gap %s to %s: %w",
			asset.Symbol, quote.Code,
			gap.Start.Format(time.DateOnly), gap.End.Format(time.DateOnly), err)
	}
	if len(points) == 0 {
		return nil
	}

	models := make([]model.AssetPrice, 0, len(points))
	for _, p := range points {
		models = append(models, model.AssetPrice{
			AssetID:   asset.AssetID,
			QuoteID:   quote.QuoteID,
			Date:      p.Date,
			Price:     p.Price,
			Source:    coingecko.Source,
			CreatedAt: time.Now().UTC(),
		})
	}

	// write-through: persist before merging so the next request for this
	// range hits the store
	if err := h.AssetPriceRepository.Add(nil, models); err != nil {
		return err
	}

	for _, p := range points {
		have[p.Date.Format(time.DateOnly)] = p.Price
	}

	return nil
}

// assemble orders the merged view by date and rounds each price to the
// quote's precision.
func assemble(have map[string]float64, r domain.DateRange, decimals int32) []domain.PricePoint {
	out := []domain.PricePoint{}
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		price, ok := have[d.Format(time.DateOnly)]
		if !ok {
			continue
		}
		out = append(out, domain.PricePoint{
			Date:  d,
			Price: roundPrice(price, decimals),
		})
	}
	return out
}

func roundPrice(price float64, decimals int32) float64 {
	return decimal.NewFromFloat(price).Round(decimals).InexactFloat64()
}
