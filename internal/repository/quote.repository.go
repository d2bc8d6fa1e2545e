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

// quote currencies are an open set - any unrecognized code gets
// provisioned with a default display name and precision
const defaultQuoteDecimals = 2

type QuoteRepository interface {
	GetOrCreate(code string) (*model.Quote, error)
}

type quoteRepositoryHandler struct {
	Db *sql.DB
}

func NewQuoteRepository(db *sql.DB) QuoteRepository {
	return quoteRepositoryHandler{Db: db}
}

func (h quoteRepositoryHandler) GetOrCreate(code string) (*model.Quote, error) {
	codeUpper := strings.ToUpper(code)

	query := table.Quote.
		SELECT(table.Quote.AllColumns).
		WHERE(table.Quote.Code.EQ(postgres.String(codeUpper)))

	out := model.Quote{}
	err := query.Query(h.Db, &out)
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("failed to get quote %s: %w", codeUpper, err)
	}

	// ON CONFLICT keeps concurrent auto-provisions of the same code from
	// failing; whichever insert lands first wins
	insert := table.Quote.
		INSERT(table.Quote.MutableColumns).
		MODEL(model.Quote{
			Code:     codeUpper,
			Name:     codeUpper,
			Decimals: defaultQuoteDecimals,
		}).
		ON_CONFLICT(table.Quote.Code).DO_UPDATE(
		postgres.SET(
			table.Quote.Code.SET(table.Quote.EXCLUDED.Code),
		),
	).RETURNING(table.Quote.AllColumns)

	err = insert.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quote %s: %w", codeUpper, err)
	}

	return &out, nil
}
