package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"pricehistory/internal/db/models/postgres/public/model"
	"pricehistory/internal/db/models/postgres/public/table"
	"strings"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type AssetRepository interface {
	// GetBySymbol returns nil without error when the symbol has never
	// been seen.
	GetBySymbol(symbol string) (*model.Asset, error)
	GetOrCreate(tx *sql.Tx, a model.Asset) (*model.Asset, error)
	List() ([]model.Asset, error)
}

type assetRepositoryHandler struct {
	Db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return assetRepositoryHandler{Db: db}
}

func (h assetRepositoryHandler) GetBySymbol(symbol string) (*model.Asset, error) {
	query := table.Asset.
		SELECT(table.Asset.AllColumns).
		WHERE(table.Asset.Symbol.EQ(postgres.String(strings.ToUpper(symbol))))

	out := model.Asset{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", symbol, err)
	}

	return &out, nil
}

func (h assetRepositoryHandler) GetOrCreate(tx *sql.Tx, a model.Asset) (*model.Asset, error) {
	query := table.Asset.
		INSERT(table.Asset.MutableColumns).
		MODEL(a).
		ON_CONFLICT(table.Asset.Symbol).DO_UPDATE(
		postgres.SET(
			table.Asset.Symbol.SET(table.Asset.EXCLUDED.Symbol),
		),
	).RETURNING(table.Asset.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Asset{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert asset %s: %w", a.Symbol, err)
	}

	return &out, nil
}

func (h assetRepositoryHandler) List() ([]model.Asset, error) {
	query := table.Asset.SELECT(table.Asset.AllColumns).
		ORDER_BY(table.Asset.Symbol.ASC())

	out := []model.Asset{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return out, nil
}
