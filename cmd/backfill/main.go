package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"pricehistory/cmd"
	"pricehistory/internal/logger"
	"pricehistory/internal/service"
	"pricehistory/internal/util"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var (
	quoteFlag string
	startFlag string
	endFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "backfill SYMBOL...",
	Short: "Pre-warm the price store for one or more symbols",
	Long: `Backfill runs the same gap-filling sync the API performs, so later
history requests for the given symbols are served entirely from the store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		apiHandler, err := cmd.InitializeDependencies()
		if err != nil {
			return err
		}
		defer cmd.CloseDependencies(apiHandler)

		input := service.GetHistoryInput{
			Quote: quoteFlag,
		}
		if startFlag != "" {
			t, err := util.ParseDate(startFlag)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			input.Start = &t
		}
		if endFlag != "" {
			t, err := util.ParseDate(endFlag)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			input.End = &t
		}

		failed := 0
		for _, symbol := range args {
			input.Symbol = symbol
			history, err := apiHandler.HistoryService.GetHistory(context.Background(), input)
			if err != nil {
				logger.Error(fmt.Errorf("failed to backfill %s: %w", symbol, err))
				failed++
				continue
			}
			logger.Info("backfilled %s/%s: %d points, filled_from_upstream=%v",
				history.Symbol, history.Quote, len(history.Prices), history.FilledFromUpstream)
		}

		if failed > 0 {
			return fmt.Errorf("failed to backfill %d/%d symbols", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&quoteFlag, "quote", "USD", "quote currency code")
	rootCmd.Flags().StringVar(&startFlag, "start", "", "start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&endFlag, "end", "", "end date (YYYY-MM-DD)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
