package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/catalog"
	"github.com/finbook/finbook/internal/cli"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long: `List and maintain a holder's accounts, including the default account
selection, archiving, and soft deletion.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(setDefaultAccountCmd())
	cmd.AddCommand(unsetDefaultAccountCmd())
	cmd.AddCommand(archiveAccountCmd())
	cmd.AddCommand(unarchiveAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(restoreAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <holder>",
		Short: "List a holder's accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			holder, err := resolveHolder(ctx, svc.Store(), args[0])
			if err != nil {
				return err
			}

			accounts, err := svc.Store().ListAccounts(ctx, holder.ID)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found. Use 'finbook accounts add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Default"),
				cli.HeaderStyle.Render("Archived"),
				cli.HeaderStyle.Render("Deleted"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36), strings.Repeat("-", 20),
				strings.Repeat("-", 7), strings.Repeat("-", 8), strings.Repeat("-", 7))
			for _, account := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					account.ID, account.Name,
					yesNo(account.IsDefault), yesNo(account.IsArchived), yesNo(account.IsDeleted))
			}
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		typeArg     string
		currencyArg string
		bankArg     string
		isDefault   bool
	)

	cmd := &cobra.Command{
		Use:   "add <holder> <name>",
		Short: "Add a new account",
		Long: `Create an account for a holder. With --default the holder's previous
default account, if any, is demoted in the same step.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			holder, err := resolveHolder(ctx, svc.Store(), args[0])
			if err != nil {
				return err
			}
			typeID, err := parseID(typeArg, "account type")
			if err != nil {
				return err
			}
			currencyID, err := parseID(currencyArg, "currency")
			if err != nil {
				return err
			}
			bankID, err := parseID(bankArg, "bank")
			if err != nil {
				return err
			}

			account, err := svc.CreateAccount(ctx, catalog.CreateAccountParams{
				Name:          args[1],
				HolderID:      holder.ID,
				AccountTypeID: typeID,
				CurrencyID:    currencyID,
				BankID:        bankID,
				IsDefault:     isDefault,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created account %q (%s)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeArg, "type", "", "account type id (required)")
	cmd.Flags().StringVar(&currencyArg, "currency", "", "currency id (required)")
	cmd.Flags().StringVar(&bankArg, "bank", "", "bank id (required)")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the holder's default account")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("currency")
	_ = cmd.MarkFlagRequired("bank")
	return cmd
}

func setDefaultAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <id>",
		Short: "Make an account its holder's default",
		Long:  `Promote an account to default. The holder's previous default is demoted in the same step.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			if err := svc.SetDefaultAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Default account updated"))
			return nil
		},
	}
}

func unsetDefaultAccountCmd() *cobra.Command {
	var replacementArg string

	cmd := &cobra.Command{
		Use:   "unset-default <id>",
		Short: "Demote the default account in favor of a replacement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			replacementID, err := parseID(replacementArg, "replacement account")
			if err != nil {
				return err
			}
			if err := svc.UnsetDefaultAccount(ctx, id, replacementID); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Default account updated"))
			return nil
		},
	}

	cmd.Flags().StringVar(&replacementArg, "replacement", "", "account to promote instead (required)")
	_ = cmd.MarkFlagRequired("replacement")
	return cmd
}

func archiveAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			if err := svc.ArchiveAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account archived"))
			return nil
		},
	}
}

func unarchiveAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive <id>",
		Short: "Unarchive an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			if err := svc.UnarchiveAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account unarchived"))
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete an account",
		Long:  `Mark an account deleted. The row is kept and can be restored later.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			if err := svc.SoftDeleteAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account deleted"))
			return nil
		},
	}
}

func restoreAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft-deleted account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			if err := svc.RestoreAccount(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Account restored"))
			return nil
		},
	}
}
