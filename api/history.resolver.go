package api

import (
	"errors"
	"fmt"
	"net/http"
	"pricehistory/internal/domain"
	"pricehistory/internal/service"
	"pricehistory/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type pricePointResponse struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type historyResponse struct {
	Asset              string               `json:"asset"`
	Quote              string               `json:"quote"`
	Start              string               `json:"start"`
	End                string               `json:"end"`
	Interval           string               `json:"interval"`
	Source             string               `json:"source"`
	Prices             []pricePointResponse `json:"prices"`
	FilledFromUpstream bool                 `json:"filled_from_upstream"`
}

func (m ApiHandler) history(c *gin.Context) {
	input := service.GetHistoryInput{
		Symbol: c.Param("symbol"),
		Quote:  c.DefaultQuery("quote", "USD"),
	}

	if v := c.Query("start"); v != "" {
		t, err := util.ParseDate(v)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid start date %q: %w", v, err), c, http.StatusBadRequest)
			return
		}
		input.Start = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := util.ParseDate(v)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid end date %q: %w", v, err), c, http.StatusBadRequest)
			return
		}
		input.End = &t
	}

	history, err := m.HistoryService.GetHistory(c.Request.Context(), input)
	if err != nil {
		returnHistoryError(err, c)
		return
	}

	c.JSON(http.StatusOK, toHistoryResponse(history))
}

// returnHistoryError translates the domain error taxonomy to HTTP codes:
// bad input gets a 400, an exhausted upstream gets a 503, everything
// else is a 500.
func returnHistoryError(err error, c *gin.Context) {
	var symbolNotFound domain.SymbolNotFoundError
	var upstream *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		returnErrorJsonCode(err, c, http.StatusBadRequest)
	case errors.As(err, &symbolNotFound):
		returnErrorJsonCode(err, c, http.StatusBadRequest)
	case errors.As(err, &upstream):
		returnErrorJsonCode(err, c, http.StatusServiceUnavailable)
	default:
		returnErrorJson(err, c)
	}
}

func toHistoryResponse(h *domain.History) historyResponse {
	prices := make([]pricePointResponse, 0, len(h.Prices))
	for _, p := range h.Prices {
		prices = append(prices, pricePointResponse{
			Date:  p.Date.Format(time.DateOnly),
			Price: p.Price,
		})
	}

	return historyResponse{
		Asset:              h.Symbol,
		Quote:              h.Quote,
		Start:              h.Range.Start.Format(time.DateOnly),
		End:                h.Range.End.Format(time.DateOnly),
		Interval:           "daily",
		Source:             h.Source,
		Prices:             prices,
		FilledFromUpstream: h.FilledFromUpstream,
	}
}
