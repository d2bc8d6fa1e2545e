package service

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"pricehistory/internal/domain"
	"pricehistory/internal/logger"
	"pricehistory/pkg/coingecko"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

// curated map of common symbols to known provider ids - the fast path
// that skips a network round-trip for popular assets
//
//go:embed curated_symbols.csv
var curatedSymbolsCsv []byte

type curatedSymbol struct {
	Symbol      string `csv:"symbol"`
	CoingeckoID string `csv:"coingecko_id"`
}

type SymbolResolver interface {
	// Resolve maps a ticker symbol to the provider's coin id and a
	// display name. Returns domain.SymbolNotFoundError when no tier
	// can determine an id.
	Resolve(ctx context.Context, symbol string) (*domain.ResolvedAsset, error)
}

type symbolResolverHandler struct {
	CoinGecko coingecko.Client
	curated   map[string]string
}

func NewSymbolResolver(cg coingecko.Client) (SymbolResolver, error) {
	rows := []curatedSymbol{}
	if err := gocsv.UnmarshalBytes(curatedSymbolsCsv, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse curated symbol map: %w", err)
	}

	curated := map[string]string{}
	for _, row := range rows {
		curated[strings.ToUpper(row.Symbol)] = row.CoingeckoID
	}

	return symbolResolverHandler{
		CoinGecko: cg,
		curated:   curated,
	}, nil
}

// Resolve tries three tiers in order, first match wins: the curated map,
// a provider search call, then the full coin catalog. A network error in
// one tier only disqualifies that tier; it never aborts resolution. This
// is the single place such suppression is intended - fetch failures
// elsewhere propagate.
func (h symbolResolverHandler) Resolve(ctx context.Context, symbol string) (*domain.ResolvedAsset, error) {
	symbolUpper := strings.ToUpper(strings.TrimSpace(symbol))

	if coinID, ok := h.curated[symbolUpper]; ok {
		return h.resolveCurated(ctx, symbolUpper, coinID), nil
	}

	if match, err := h.resolveViaSearch(ctx, symbol, symbolUpper); err != nil {
		logger.Warn("search tier failed for %s: %v", symbolUpper, err)
	} else if match != nil {
		return match, nil
	}

	if match, err := h.resolveViaCatalog(ctx, symbolUpper); err != nil {
		logger.Warn("catalog tier failed for %s: %v", symbolUpper, err)
	} else if match != nil {
		return match, nil
	}

	return nil, domain.SymbolNotFoundError{Symbol: symbol}
}

// resolveCurated never fails: the coin id is already known, and the
// display-name lookup is best effort only.
func (h symbolResolverHandler) resolveCurated(ctx context.Context, symbolUpper, coinID string) *domain.ResolvedAsset {
	out := &domain.ResolvedAsset{
		Symbol: symbolUpper,
		Name:   symbolUpper,
		CoinID: coinID,
	}

	response, err := h.CoinGecko.Search(ctx, symbolUpper)
	if err != nil {
		logger.Warn("display name lookup failed for %s: %v", symbolUpper, err)
		return out
	}

	for _, c := range response.Coins {
		if c.ID == coinID && c.Name != "" {
			out.Name = c.Name
			break
		}
	}

	return out
}

func (h symbolResolverHandler) resolveViaSearch(ctx context.Context, query, symbolUpper string) (*domain.ResolvedAsset, error) {
	response, err := h.CoinGecko.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	exacts := []coingecko.SearchCoin{}
	for _, c := range response.Coins {
		if strings.EqualFold(c.Symbol, symbolUpper) {
			exacts = append(exacts, c)
		}
	}
	if len(exacts) == 0 {
		return nil, nil
	}

	// most prominent market rank first; missing rank sorts last
	sort.SliceStable(exacts, func(i, j int) bool {
		return searchRank(exacts[i]) < searchRank(exacts[j])
	})

	chosen := exacts[0]
	name := chosen.Name
	if name == "" {
		name = symbolUpper
	}

	return &domain.ResolvedAsset{
		Symbol: symbolUpper,
		Name:   name,
		CoinID: chosen.ID,
	}, nil
}

func searchRank(c coingecko.SearchCoin) int {
	if c.MarketCapRank == nil {
		return math.MaxInt
	}
	return *c.MarketCapRank
}

func (h symbolResolverHandler) resolveViaCatalog(ctx context.Context, symbolUpper string) (*domain.ResolvedAsset, error) {
	coins, err := h.CoinGecko.CoinList(ctx)
	if err != nil {
		return nil, err
	}

	exacts := []coingecko.CoinListEntry{}
	for _, c := range coins {
		if strings.EqualFold(c.Symbol, symbolUpper) {
			exacts = append(exacts, c)
		}
	}
	if len(exacts) == 0 {
		return nil, nil
	}

	chosen := exacts[0]
	for _, c := range exacts {
		if strings.EqualFold(c.ID, symbolUpper) {
			chosen = c
			break
		}
	}

	name := chosen.Name
	if name == "" {
		name = symbolUpper
	}

	return &domain.ResolvedAsset{
		Symbol: symbolUpper,
		Name:   name,
		CoinID: chosen.ID,
	}, nil
}
