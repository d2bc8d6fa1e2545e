package service

import (
	"context"
	"fmt"
	"pricehistory/internal/domain"
	"pricehistory/pkg/coingecko"
	mock_coingecko "pricehistory/pkg/coingecko/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func intPtr(i int) *int { return &i }

func newResolver(t *testing.T, cg coingecko.Client) SymbolResolver {
	t.Helper()
	resolver, err := NewSymbolResolver(cg)
	require.NoError(t, err)
	return resolver
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("curated symbol resolves without searching", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "BTC").Return(&coingecko.SearchResponse{
			Coins: []coingecko.SearchCoin{
				{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", MarketCapRank: intPtr(1)},
			},
		}, nil)

		resolved, err := newResolver(t, cg).Resolve(ctx, "btc")
		require.NoError(t, err)
		require.Equal(t, &domain.ResolvedAsset{
			Symbol: "BTC",
			Name:   "Bitcoin",
			CoinID: "bitcoin",
		}, resolved)
	})

	t.Run("curated symbol survives a failed display name lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "ETH").Return(nil, fmt.Errorf("network down"))

		resolved, err := newResolver(t, cg).Resolve(ctx, "eth")
		require.NoError(t, err)
		require.Equal(t, &domain.ResolvedAsset{
			Symbol: "ETH",
			Name:   "ETH",
			CoinID: "ethereum",
		}, resolved)
	})

	t.Run("search tier prefers the best market cap rank", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "uni").Return(&coingecko.SearchResponse{
			Coins: []coingecko.SearchCoin{
				{ID: "unicorn-token", Name: "Unicorn", Symbol: "UNI", MarketCapRank: nil},
				{ID: "uniswap", Name: "Uniswap", Symbol: "UNI", MarketCapRank: intPtr(20)},
				{ID: "universe", Name: "Universe", Symbol: "UNI", MarketCapRank: intPtr(900)},
				{ID: "unrelated", Name: "Unrelated", Symbol: "UNR", MarketCapRank: intPtr(2)},
			},
		}, nil)

		resolved, err := newResolver(t, cg).Resolve(ctx, "uni")
		require.NoError(t, err)
		require.Equal(t, &domain.ResolvedAsset{
			Symbol: "UNI",
			Name:   "Uniswap",
			CoinID: "uniswap",
		}, resolved)
	})

	t.Run("catalog tier prefers id matching the symbol", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "aura").Return(&coingecko.SearchResponse{}, nil)
		cg.EXPECT().CoinList(ctx).Return([]coingecko.CoinListEntry{
			{ID: "aura-finance", Symbol: "aura", Name: "Aura Finance"},
			{ID: "aura", Symbol: "aura", Name: "Aura"},
		}, nil)

		resolved, err := newResolver(t, cg).Resolve(ctx, "aura")
		require.NoError(t, err)
		require.Equal(t, &domain.ResolvedAsset{
			Symbol: "AURA",
			Name:   "Aura",
			CoinID: "aura",
		}, resolved)
	})

	t.Run("catalog tier falls back to the first exact match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "abc").Return(&coingecko.SearchResponse{}, nil)
		cg.EXPECT().CoinList(ctx).Return([]coingecko.CoinListEntry{
			{ID: "zzz-coin", Symbol: "zzz", Name: "Zzz"},
			{ID: "alphabet-coin", Symbol: "abc", Name: "Alphabet Coin"},
			{ID: "abc-chain", Symbol: "abc", Name: "ABC Chain"},
		}, nil)

		resolved, err := newResolver(t, cg).Resolve(ctx, "abc")
		require.NoError(t, err)
		require.Equal(t, "alphabet-coin", resolved.CoinID)
	})

	t.Run("search tier failure falls through to the catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "link").Return(nil, fmt.Errorf("rate limited"))
		cg.EXPECT().CoinList(ctx).Return([]coingecko.CoinListEntry{
			{ID: "chainlink", Symbol: "link", Name: "Chainlink"},
		}, nil)

		resolved, err := newResolver(t, cg).Resolve(ctx, "link")
		require.NoError(t, err)
		require.Equal(t, "chainlink", resolved.CoinID)
	})

	t.Run("unknown symbol returns a not found error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cg := mock_coingecko.NewMockClient(ctrl)

		cg.EXPECT().Search(ctx, "zzzqqq").Return(&coingecko.SearchResponse{
			Coins: []coingecko.SearchCoin{
				{ID: "other", Name: "Other", Symbol: "OTH", MarketCapRank: intPtr(5)},
			},
		}, nil)
		cg.EXPECT().CoinList(ctx).Return([]coingecko.CoinListEntry{}, nil)

		_, err := newResolver(t, cg).Resolve(ctx, "zzzqqq")
		notFound := domain.SymbolNotFoundError{}
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "zzzqqq", notFound.Symbol)
	})
}
