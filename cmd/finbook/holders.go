package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
)

func holdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holders",
		Short: "Manage registry holders",
		Long:  `List, add, and delete the registry holders that own accounts and categories.`,
	}

	cmd.AddCommand(listHoldersCmd())
	cmd.AddCommand(addHolderCmd())
	cmd.AddCommand(deleteHolderCmd())

	return cmd
}

func listHoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registry holders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			holders, err := svc.Store().ListHolders(ctx)
			if err != nil {
				return fmt.Errorf("failed to list holders: %w", err)
			}

			if len(holders) == 0 {
				fmt.Println(cli.InfoStyle.Render("No holders found. Use 'finbook holders add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 36), strings.Repeat("-", 20))
			for _, holder := range holders {
				fmt.Fprintf(w, "%s\t%s\n", holder.ID, holder.Name)
			}
			return nil
		},
	}
}

func addHolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new registry holder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			holder, err := svc.CreateHolder(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created holder %q (%s)", holder.Name, holder.ID)))
			return nil
		},
	}
}

func deleteHolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete a registry holder",
		Long:  `Delete a registry holder. Fails while the holder still owns accounts or categories.`,
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

			if err := svc.DeleteHolder(ctx, holder.ID); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted holder %q", holder.Name)))
			return nil
		},
	}
}
