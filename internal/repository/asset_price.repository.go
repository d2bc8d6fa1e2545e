package repository

import (
	"database/sql"
	"fmt"
	"pricehistory/internal/db/models/postgres/public/model"
	. "pricehistory/internal/db/models/postgres/public/table"
	"pricehistory/internal/domain"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type AssetPriceRepository interface {
	// List returns persisted points within the inclusive range, keyed by
	// YYYY-MM-DD so callers can test membership by date in O(1).
	List(assetID int32, quoteID int32, r domain.DateRange) (map[string]float64, error)
	// Add upserts each point on (asset_id, quote_id, date); later writes
	// overwrite. A no-op on empty input.
	Add(tx *sql.Tx, prices []model.AssetPrice) error
}

type assetPriceRepositoryHandler struct {
	Db *sql.DB
}

func NewAssetPriceRepository(db *sql.DB) AssetPriceRepository {
	return assetPriceRepositoryHandler{Db: db}
}

func (h assetPriceRepositoryHandler) List(assetID int32, quoteID int32, r domain.DateRange) (map[string]float64, error) {
	query := AssetPrice.
		SELECT(AssetPrice.AllColumns).
		WHERE(
			AND(
				AssetPrice.AssetID.EQ(Int32(assetID)),
				AssetPrice.QuoteID.EQ(Int32(quoteID)),
				AssetPrice.Date.BETWEEN(DateT(r.Start), DateT(r.End)),
			),
		).
		ORDER_BY(AssetPrice.Date.ASC())

	result := []model.AssetPrice{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for asset %d: %w", assetID, err)
	}

	out := map[string]float64{}
	for _, p := range result {
		out[p.Date.Format(time.DateOnly)] = p.Price
	}

	return out, nil
}

func (h assetPriceRepositoryHandler) Add(tx *sql.Tx, prices []model.AssetPrice) error {
	if len(prices) == 0 {
		return nil
	}

	query := AssetPrice.
		INSERT(AssetPrice.AllColumns).
		MODELS(prices).
		ON_CONFLICT(
			AssetPrice.AssetID, AssetPrice.QuoteID, AssetPrice.Date,
		).DO_UPDATE(
		SET(
			AssetPrice.Price.SET(AssetPrice.EXCLUDED.Price),
			AssetPrice.Source.SET(AssetPrice.EXCLUDED.Source),
		),
	)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add asset prices to db: %w", err)
	}

	return nil
}
