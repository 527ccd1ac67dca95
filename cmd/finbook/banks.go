package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
)

func banksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "Manage banks",
		Long:  `List, add, and delete the banks accounts are held at. Bank names are unique within a country.`,
	}

	cmd.AddCommand(listBanksCmd())
	cmd.AddCommand(addBankCmd())
	cmd.AddCommand(deleteBankCmd())

	return cmd
}

func listBanksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List banks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			banks, err := svc.Store().ListBanks(ctx)
			if err != nil {
				return fmt.Errorf("failed to list banks: %w", err)
			}

			if len(banks) == 0 {
				fmt.Println(cli.InfoStyle.Render("No banks found. Use 'finbook banks add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Country"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 36), strings.Repeat("-", 20), strings.Repeat("-", 36))
			for _, bank := range banks {
				fmt.Fprintf(w, "%s\t%s\t%s\n", bank.ID, bank.Name, bank.CountryID)
			}
			return nil
		},
	}
}

func addBankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <country-id> <name>",
		Short: "Add a new bank",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			countryID, err := parseID(args[0], "country")
			if err != nil {
				return err
			}
			bank, err := svc.CreateBank(ctx, countryID, args[1])
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created bank %q (%s)", bank.Name, bank.ID)))
			return nil
		},
	}
}

func deleteBankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bank",
		Long:  `Remove a bank row. Fails while any account is still held at it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "bank")
			if err != nil {
				return err
			}
			if err := svc.DeleteBank(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Bank deleted"))
			return nil
		},
	}
}
