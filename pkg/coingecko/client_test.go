package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"pricehistory/internal/domain"
	"pricehistory/internal/util"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*clientHandler, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sleeps := []time.Duration{}
	c := &clientHandler{
		HttpClient: server.Client(),
		BaseUrl:    server.URL,
		sleep: func(d time.Duration) {
			sleeps = append(sleeps, d)
		},
	}
	return c, &sleeps
}

func ms(d time.Time) float64 {
	return float64(d.UnixMilli())
}

func TestFetchRange(t *testing.T) {
	t.Run("dedupes points by calendar day, later wins, sorted ascending", func(t *testing.T) {
		day1 := util.NewDate(2024, 1, 2)
		day2 := util.NewDate(2024, 1, 1)
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/coins/bitcoin/market_chart/range", r.URL.Path)
			require.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
			fmt.Fprintf(w, `{"prices": [
				[%f, 100],
				[%f, 200],
				[%f, 300],
				[%f, 400]
			]}`,
				ms(day1),
				ms(day2),
				ms(day2.Add(6*time.Hour)),
				ms(day2.Add(23*time.Hour)),
			)
		})

		prices, err := c.FetchRange(context.Background(), "bitcoin", "USD", domain.DateRange{
			Start: day2,
			End:   day1,
		})
		require.NoError(t, err)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.PricePoint{
					{Date: day2, Price: 400},
					{Date: day1, Price: 100},
				},
				prices,
			),
		)
	})

	t.Run("single day range may yield one point", func(t *testing.T) {
		day := util.NewDate(2024, 3, 15)
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"prices": [[%f, 42.5]]}`, ms(day))
		})

		prices, err := c.FetchRange(context.Background(), "litecoin", "USD", domain.DateRange{Start: day, End: day})
		require.NoError(t, err)
		require.Equal(t, []domain.PricePoint{{Date: day, Price: 42.5}}, prices)
	})

	t.Run("empty response is not an error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"prices": []}`)
		})

		prices, err := c.FetchRange(context.Background(), "dogecoin", "USD", domain.DateRange{
			Start: util.NewDate(2024, 1, 1),
			End:   util.NewDate(2024, 1, 2),
		})
		require.NoError(t, err)
		require.Empty(t, prices)
	})
}

func TestDoRetries(t *testing.T) {
	t.Run("rate limit honors retry-after then succeeds", func(t *testing.T) {
		calls := 0
		c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"prices": []}`)
		})

		_, err := c.FetchRange(context.Background(), "bitcoin", "USD", domain.DateRange{
			Start: util.NewDate(2024, 1, 1),
			End:   util.NewDate(2024, 1, 1),
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
		require.Equal(t, []time.Duration{2 * time.Second}, *sleeps)
	})

	t.Run("rate limit without retry-after uses growing backoff", func(t *testing.T) {
		calls := 0
		c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.CoinList(context.Background())
		require.Error(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []time.Duration{
			1500 * time.Millisecond,
			3000 * time.Millisecond,
			4500 * time.Millisecond,
		}, *sleeps)

		upstreamErr := &domain.UpstreamError{}
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	})

	t.Run("unauthorized fails immediately without retry", func(t *testing.T) {
		calls := 0
		c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.Search(context.Background(), "btc")
		require.Error(t, err)
		require.Equal(t, 1, calls)
		require.Empty(t, *sleeps)

		upstreamErr := &domain.UpstreamError{}
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	})

	t.Run("not found fails immediately without retry", func(t *testing.T) {
		calls := 0
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.FetchRange(context.Background(), "no-such-coin", "USD", domain.DateRange{
			Start: util.NewDate(2024, 1, 1),
			End:   util.NewDate(2024, 1, 1),
		})
		require.Error(t, err)
		require.Equal(t, 1, calls)

		upstreamErr := &domain.UpstreamError{}
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
	})

	t.Run("server errors retry with fixed backoff then fail", func(t *testing.T) {
		calls := 0
		c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.CoinList(context.Background())
		require.Error(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []time.Duration{
			800 * time.Millisecond,
			1600 * time.Millisecond,
			2400 * time.Millisecond,
		}, *sleeps)

		upstreamErr := &domain.UpstreamError{}
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
	})

	t.Run("recovers after transient server error", func(t *testing.T) {
		calls := 0
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `[{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin"}]`)
		})

		coins, err := c.CoinList(context.Background())
		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []CoinListEntry{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}}, coins)
	})

	t.Run("cancelled context stops the retry loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			cancel()
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.CoinList(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
