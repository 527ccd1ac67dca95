package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
)

const rateDateFormat = "2006-01-02"

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates",
		Long:  `Record and list daily exchange rates of catalog currencies.`,
	}

	cmd.AddCommand(setRateCmd())
	cmd.AddCommand(listRatesCmd())

	return cmd
}

func setRateCmd() *cobra.Command {
	var (
		dateArg string
		nominal int
	)

	cmd := &cobra.Command{
		Use:   "set <currency-id> <rate>",
		Short: "Record a currency's rate for a date",
		Long:  `Save the rate of a currency for a date. Saving the same date twice replaces the earlier value.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			currencyID, err := parseID(args[0], "currency")
			if err != nil {
				return err
			}
			value, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[1], err)
			}

			date := time.Now()
			if dateArg != "" {
				date, err = time.Parse(rateDateFormat, dateArg)
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateArg, err)
				}
			}

			rate, err := svc.SetExchangeRate(ctx, currencyID, date, nominal, value)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Saved rate %s (nominal %d) for %s",
				rate.Rate, rate.Nominal, rate.Date.Format(rateDateFormat))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "rate date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&nominal, "nominal", 1, "units of the currency the rate is quoted for")
	return cmd
}

func listRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <currency-id>",
		Short: "List a currency's recorded rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			currencyID, err := parseID(args[0], "currency")
			if err != nil {
				return err
			}

			rates, err := svc.Store().ListExchangeRates(ctx, currencyID)
			if err != nil {
				return fmt.Errorf("failed to list rates: %w", err)
			}

			if len(rates) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rates recorded. Use 'finbook rates set' to add one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Nominal"),
				cli.HeaderStyle.Render("Rate"),
				cli.HeaderStyle.Render("Per unit"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10), strings.Repeat("-", 7),
				strings.Repeat("-", 12), strings.Repeat("-", 12))
			for i := range rates {
				rate := &rates[i]
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					rate.Date.Format(rateDateFormat), rate.Nominal, rate.Rate, rate.PerUnit())
			}
			return nil
		},
	}
}
