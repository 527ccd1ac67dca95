package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
)

func currenciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currencies",
		Short: "Manage currencies",
		Long:  `List, add, disable, restore, and delete the currencies accounts can be denominated in.`,
	}

	cmd.AddCommand(listCurrenciesCmd())
	cmd.AddCommand(addCurrencyCmd())
	cmd.AddCommand(disableCurrencyCmd())
	cmd.AddCommand(restoreCurrencyCmd())
	cmd.AddCommand(deleteCurrencyCmd())

	return cmd
}

func listCurrenciesCmd() *cobra.Command {
	var includeDeleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List currencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			currencies, err := svc.Store().ListCurrencies(ctx, includeDeleted)
			if err != nil {
				return fmt.Errorf("failed to list currencies: %w", err)
			}

			if len(currencies) == 0 {
				fmt.Println(cli.InfoStyle.Render("No currencies found. Use 'finbook currencies add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Code"),
				cli.HeaderStyle.Render("Num"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Deleted"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36), strings.Repeat("-", 4),
				strings.Repeat("-", 4), strings.Repeat("-", 20), strings.Repeat("-", 7))
			for _, currency := range currencies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					currency.ID, currency.CharCode, currency.NumCode, currency.Name,
					yesNo(currency.IsDeleted))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDeleted, "all", false, "include soft-deleted currencies")
	return cmd
}

func addCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <char-code> <num-code> <name>",
		Short: "Add a new currency",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			currency, err := svc.CreateCurrency(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created currency %s (%s)", currency.CharCode, currency.ID)))
			return nil
		},
	}
}

func disableCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Soft-delete a currency",
		Long: `Mark a currency deleted. Accounts that already use it keep working,
but it can no longer be attached to new or repointed accounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "currency")
			if err != nil {
				return err
			}
			if err := svc.MarkCurrencyDeleted(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Currency disabled"))
			return nil
		},
	}
}

func restoreCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft-deleted currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "currency")
			if err != nil {
				return err
			}
			if err := svc.RestoreCurrency(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Currency restored"))
			return nil
		},
	}
}

func deleteCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a currency",
		Long:  `Remove a currency row. Fails while any account or exchange rate still references it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "currency")
			if err != nil {
				return err
			}
			if err := svc.DeleteCurrency(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Currency deleted"))
			return nil
		},
	}
}
