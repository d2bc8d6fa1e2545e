package api

import (
	"fmt"
	"net/http"
	"pricehistory/internal/service"
	"pricehistory/internal/util"

	"github.com/gin-gonic/gin"
)

type backfillRequest struct {
	Symbols []string `json:"symbols"`
	Quote   string   `json:"quote"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
}

type backfillResponse struct {
	Synced []string          `json:"synced"`
	Failed map[string]string `json:"failed,omitempty"`
}

// backfill pre-warms the store for a set of symbols so later history
// reads are pure cache hits.
func (m ApiHandler) backfill(c *gin.Context) {
	var requestBody backfillRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}
	if len(requestBody.Symbols) == 0 {
		returnErrorJsonCode(fmt.Errorf("symbols must not be empty"), c, http.StatusBadRequest)
		return
	}

	input := service.GetHistoryInput{
		Quote: requestBody.Quote,
	}
	if requestBody.Start != "" {
		t, err := util.ParseDate(requestBody.Start)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid start date %q: %w", requestBody.Start, err), c, http.StatusBadRequest)
			return
		}
		input.Start = &t
	}
	if requestBody.End != "" {
		t, err := util.ParseDate(requestBody.End)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid end date %q: %w", requestBody.End, err), c, http.StatusBadRequest)
			return
		}
		input.End = &t
	}

	out := backfillResponse{
		Synced: []string{},
		Failed: map[string]string{},
	}
	for _, symbol := range requestBody.Symbols {
		input.Symbol = symbol
		if _, err := m.HistoryService.GetHistory(c.Request.Context(), input); err != nil {
			out.Failed[symbol] = err.Error()
			continue
		}
		out.Synced = append(out.Synced, symbol)
	}

	c.JSON(http.StatusOK, out)
}
