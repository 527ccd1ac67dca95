package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
)

func accountTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account-types",
		Short: "Manage account types",
		Long:  `List, add, disable, restore, and delete account types (checking, deposit, brokerage, ...).`,
	}

	cmd.AddCommand(listAccountTypesCmd())
	cmd.AddCommand(addAccountTypeCmd())
	cmd.AddCommand(disableAccountTypeCmd())
	cmd.AddCommand(restoreAccountTypeCmd())
	cmd.AddCommand(deleteAccountTypeCmd())

	return cmd
}

func listAccountTypesCmd() *cobra.Command {
	var includeDeleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List account types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			types, err := svc.Store().ListAccountTypes(ctx, includeDeleted)
			if err != nil {
				return fmt.Errorf("failed to list account types: %w", err)
			}

			if len(types) == 0 {
				fmt.Println(cli.InfoStyle.Render("No account types found. Use 'finbook account-types add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Deleted"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 36), strings.Repeat("-", 20), strings.Repeat("-", 7))
			for _, accountType := range types {
				fmt.Fprintf(w, "%s\t%s\t%s\n", accountType.ID, accountType.Name, yesNo(accountType.IsDeleted))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDeleted, "all", false, "include soft-deleted account types")
	return cmd
}

func addAccountTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			accountType, err := svc.CreateAccountType(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created account type %q (%s)", accountType.Name, accountType.ID)))
			return nil
		},
	}
}

func disableAccountTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Soft-delete an account type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account type")
			if err != nil {
				return err
			}
			if err := svc.MarkAccountTypeDeleted(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account type disabled"))
			return nil
		},
	}
}

func restoreAccountTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft-deleted account type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account type")
			if err != nil {
				return err
			}
			if err := svc.RestoreAccountType(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account type restored"))
			return nil
		},
	}
}

func deleteAccountTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete an account type",
		Long:  `Remove an account type row. Fails while any account still references it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account type")
			if err != nil {
				return err
			}
			if err := svc.DeleteAccountType(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account type deleted"))
			return nil
		},
	}
}
