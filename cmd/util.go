package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"pricehistory/api"
	"pricehistory/internal/repository"
	"pricehistory/internal/service"
	"pricehistory/internal/util"
	"pricehistory/pkg/coingecko"
	"time"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	coinGeckoClient := coingecko.NewClient(
		&http.Client{Timeout: 30 * time.Second},
		secrets.CoinGeckoApiKey,
	)

	assetRepository := repository.NewAssetRepository(dbConn)
	quoteRepository := repository.NewQuoteRepository(dbConn)
	assetPriceRepository := repository.NewAssetPriceRepository(dbConn)

	symbolResolver, err := service.NewSymbolResolver(coinGeckoClient)
	if err != nil {
		return nil, err
	}

	historyService := service.NewHistoryService(
		dbConn,
		assetRepository,
		quoteRepository,
		assetPriceRepository,
		symbolResolver,
		coinGeckoClient,
	)

	apiHandler := &api.ApiHandler{
		Db:                   dbConn,
		HistoryService:       historyService,
		ApiRequestRepository: repository.ApiRequestRepositoryHandler{},
	}

	return apiHandler, nil
}
