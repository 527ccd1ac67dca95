package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
)

func countriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Manage countries",
		Long:  `List, add, and delete the countries banks are registered in.`,
	}

	cmd.AddCommand(listCountriesCmd())
	cmd.AddCommand(addCountryCmd())
	cmd.AddCommand(deleteCountryCmd())

	return cmd
}

func listCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List countries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			countries, err := svc.Store().ListCountries(ctx)
			if err != nil {
				return fmt.Errorf("failed to list countries: %w", err)
			}

			if len(countries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No countries found. Use 'finbook countries add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 36), strings.Repeat("-", 20))
			for _, country := range countries {
				fmt.Fprintf(w, "%s\t%s\n", country.ID, country.Name)
			}
			return nil
		},
	}
}

func addCountryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			country, err := svc.CreateCountry(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created country %q (%s)", country.Name, country.ID)))
			return nil
		},
	}
}

func deleteCountryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a country",
		Long:  `Remove a country row. Fails while any bank is still registered in it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "country")
			if err != nil {
				return err
			}
			if err := svc.DeleteCountry(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Country deleted"))
			return nil
		},
	}
}
