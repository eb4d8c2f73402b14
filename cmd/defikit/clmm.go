package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"defikit/internal/clmm"
	"defikit/internal/numeric"
)

func clmmCmd(a *app) *cobra.Command {
	var (
		in         clmm.Inputs
		rangePct   float64
		exitPrice  float64
		exitChange float64
		nudgeLower string
		nudgeUpper string
	)
	cmd := &cobra.Command{
		Use:   "clmm",
		Short: "Evaluate a concentrated liquidity position",
		Long: "Evaluate a concentrated liquidity position. Prices come from the configured\n" +
			"price book unless --price is given. A missing range is derived from the\n" +
			"current price with --range-pct.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := a.cfg.CLMM
			flags := cmd.Flags()
			if !flags.Changed("token-a") {
				in.TokenA = defaults.TokenA
			}
			if !flags.Changed("token-b") {
				in.TokenB = defaults.TokenB
			}
			if !flags.Changed("investment") {
				in.Investment = defaults.Investment
			}
			if !flags.Changed("fee-apr") {
				in.FeeAPR = defaults.FeeAPR
			}
			if !flags.Changed("days") {
				in.DurationDays = defaults.DurationDays
			}
			if !flags.Changed("range-pct") {
				rangePct = defaults.RangePercent
			}

			o := a.oracle()
			price := in.ManualPrice
			if price <= 0 {
				pa, okA := o.Price(in.TokenA)
				pb, okB := o.Price(in.TokenB)
				if okA && okB {
					price = pa / pb
				}
			}
			if price > 0 && in.Lower == 0 && in.Upper == 0 {
				rng := clmm.RangeAround(price, rangePct)
				in.Lower, in.Upper = rng.Lower, rng.Upper
			}
			var err error
			if in.Lower, err = nudge(in.Lower, nudgeLower); err != nil {
				return fmt.Errorf("--nudge-lower: %w", err)
			}
			if in.Upper, err = nudge(in.Upper, nudgeUpper); err != nil {
				return fmt.Errorf("--nudge-upper: %w", err)
			}
			switch {
			case flags.Changed("exit"):
				in.ExitPrice = &exitPrice
			case flags.Changed("exit-change") && price > 0:
				p := clmm.ExitPriceAt(price, exitChange)
				in.ExitPrice = &p
			}

			out := clmm.NewEngine(a.logger, o).Evaluate(in)
			if err := printJSON(cmd.OutOrStdout(), clmm.Wrap(out)); err != nil {
				return err
			}
			if inv, ok := out.(clmm.Invalid); ok {
				return inv
			}
			if s, ok := out.(clmm.Success); ok && s.Position.Comparison != nil {
				c := s.Position.Comparison
				dp := numeric.DisplayPrecision(c.ExitPrice)
				fmt.Fprintf(cmd.ErrOrStderr(), "exit %.*f (%+.2f%%): LP+fees %.2f vs HODL %.2f, break-even %s\n",
					dp, c.ExitPrice, clmm.PriceChangePercent(price, c.ExitPrice),
					c.LPValueWithFees, c.HodlValue, c.BreakEven())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.TokenA, "token-a", "", "base token id in the price book")
	f.StringVar(&in.TokenB, "token-b", "", "quote token id in the price book")
	f.Float64Var(&in.ManualPrice, "price", 0, "manual price of token A in token B; bypasses the price book")
	f.Float64Var(&in.Investment, "investment", 0, "amount deposited, in quote currency")
	f.Float64Var(&in.Lower, "lower", 0, "lower bound of the price range")
	f.Float64Var(&in.Upper, "upper", 0, "upper bound of the price range")
	f.StringVar(&nudgeLower, "nudge-lower", "", "move the lower bound one price step up or down")
	f.StringVar(&nudgeUpper, "nudge-upper", "", "move the upper bound one price step up or down")
	f.Float64Var(&rangePct, "range-pct", clmm.DefaultRangePercent, "± percent around the price when no range is given")
	f.Float64Var(&in.FeeAPR, "fee-apr", 0, "expected fee APR in percent")
	f.Float64Var(&in.DurationDays, "days", 0, "holding period in days")
	f.Float64Var(&exitPrice, "exit", 0, "exit price to compare against holding")
	f.Float64Var(&exitChange, "exit-change", 0, "exit price as a percent move from the current price")
	return cmd
}
