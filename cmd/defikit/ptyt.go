package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"defikit/internal/ptyt"
)

func ptytCmd(a *app) *cobra.Command {
	var (
		market      ptyt.MarketInputs
		maturity    string
		daysLeft    int
		in          ptyt.ForecastInputs
		underlying  float64
		impliedExit float64
		saleDays    int
		nudgePrice  string
	)
	cmd := &cobra.Command{
		Use:   "ptyt",
		Short: "Price a PT/YT market and forecast strategy outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := a.cfg.PTYT
			flags := cmd.Flags()
			if !flags.Changed("asset") {
				market.AssetName = defaults.AssetName
			}
			if !flags.Changed("asset-price") {
				market.AssetPrice = defaults.AssetPrice
			}
			if !flags.Changed("implied-apy") {
				market.ImpliedAPYPercent = defaults.ImpliedAPY
			}
			if !flags.Changed("investment") {
				in.Investment = defaults.Investment
			}
			if !flags.Changed("future-underlying-apy") {
				underlying = defaults.FutureUnderlyingAPY
			}
			if !flags.Changed("future-implied-apy") {
				impliedExit = defaults.FutureImpliedAPY
			}
			if !flags.Changed("sale-days") {
				saleDays = defaults.SaleOffsetDays
			}

			var err error
			if market.AssetPrice, err = nudge(market.AssetPrice, nudgePrice); err != nil {
				return fmt.Errorf("--nudge-asset-price: %w", err)
			}

			clock := ptyt.SystemClock{}
			today := clock.Today()
			switch {
			case maturity != "":
				t, err := time.Parse(time.DateOnly, maturity)
				if err != nil {
					return fmt.Errorf("invalid --maturity: %w", err)
				}
				market.Maturity = t
			case daysLeft > 0:
				market.Maturity = today.AddDate(0, 0, daysLeft)
			default:
				return fmt.Errorf("one of --maturity or --days is required")
			}

			calc := ptyt.NewCalculator(a.logger, clock)
			q, err := calc.Submit(market)
			if err != nil {
				return err
			}

			sale := today.AddDate(0, 0, saleDays)
			if sale.After(q.Maturity) {
				sale = q.Maturity
			}
			in.FutureUnderlyingAPY = underlying / 100
			in.FutureImpliedAPY = impliedExit / 100
			in.SaleDate = sale

			f, err := calc.Analyze(in)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), f); err != nil {
				return err
			}
			if f.Best != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "best: %s %s, net %.2f over %d days\n",
					f.Best.Horizon, f.Best.Strategy, f.Best.NetProfit, q.DaysToMaturity())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&market.AssetName, "asset", "", "underlying asset name")
	f.Float64Var(&market.AssetPrice, "asset-price", 0, "underlying asset price in quote currency")
	f.StringVar(&nudgePrice, "nudge-asset-price", "", "move the asset price one price step up or down")
	f.Float64Var(&market.ImpliedAPYPercent, "implied-apy", 0, "market implied APY in percent")
	f.StringVar(&maturity, "maturity", "", "maturity date, YYYY-MM-DD")
	f.IntVar(&daysLeft, "days", 0, "days to maturity, when --maturity is not given")
	f.Float64Var(&in.Investment, "investment", 0, "amount invested in each strategy")
	f.Float64Var(&underlying, "future-underlying-apy", 0, "expected underlying APY in percent")
	f.Float64Var(&impliedExit, "future-implied-apy", 0, "expected implied APY at the sale date in percent")
	f.IntVar(&saleDays, "sale-days", 0, "days from today until the trader sells")
	return cmd
}
