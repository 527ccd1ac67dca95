package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/cli"
	"github.com/finbook/finbook/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage category trees",
		Long:  `List, add, rename, move, and delete the income and expense categories of a holder.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(moveCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <holder>",
		Short: "List a holder's categories as a tree",
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

			categories, err := svc.Store().ListCategories(ctx, holder.ID)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'finbook categories add' to create one."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Categories of %s", holder.Name)))
			printCategoryTree(categories)
			return nil
		},
	}
}

// printCategoryTree renders the forest with two-space indentation per level.
func printCategoryTree(categories []model.Category) {
	children := make(map[uuid.UUID][]model.Category)
	var roots []model.Category
	for _, category := range categories {
		if category.ParentID == nil {
			roots = append(roots, category)
		} else {
			children[*category.ParentID] = append(children[*category.ParentID], category)
		}
	}

	var walk func(nodes []model.Category, depth int)
	walk = func(nodes []model.Category, depth int) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
		for _, node := range nodes {
			indent := ""
			for i := 0; i < depth; i++ {
				indent += "  "
			}
			kind := ""
			switch {
			case node.IsIncome && node.IsExpense:
				kind = cli.SubtleStyle.Render(" (income+expense)")
			case node.IsIncome:
				kind = cli.SubtleStyle.Render(" (income)")
			case node.IsExpense:
				kind = cli.SubtleStyle.Render(" (expense)")
			}
			fmt.Printf("%s%s%s  %s\n", indent, node.Name, kind, cli.SubtleStyle.Render(node.ID.String()))
			walk(children[node.ID], depth+1)
		}
	}
	walk(roots, 0)
}

func addCategoryCmd() *cobra.Command {
	var (
		parentArg string
		isIncome  bool
		isExpense bool
	)

	cmd := &cobra.Command{
		Use:   "add <holder> <name>",
		Short: "Add a new category",
		Long:  `Create a category for a holder, optionally under a parent. Sibling names must be unique.`,
		Args:  cobra.ExactArgs(2),
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

			var parentID *uuid.UUID
			if parentArg != "" {
				id, err := parseID(parentArg, "parent category")
				if err != nil {
					return err
				}
				parentID = &id
			}

			category, err := svc.CreateCategory(ctx, holder.ID, parentID, args[1], isIncome, isExpense)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created category %q (%s)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentArg, "parent", "", "parent category id (omit for a root category)")
	cmd.Flags().BoolVar(&isIncome, "income", false, "mark as an income category")
	cmd.Flags().BoolVar(&isExpense, "expense", true, "mark as an expense category")
	return cmd
}

func renameCategoryCmd() *cobra.Command {
	var (
		isIncome  bool
		isExpense bool
	)

	cmd := &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			if err := svc.UpdateCategory(ctx, id, args[1], isIncome, isExpense); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Renamed category to %q", args[1])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&isIncome, "income", false, "mark as an income category")
	cmd.Flags().BoolVar(&isExpense, "expense", true, "mark as an expense category")
	return cmd
}

func moveCategoryCmd() *cobra.Command {
	var parentArg string

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a category under a new parent",
		Long: `Reparent a category. Without --parent the category becomes a root.
Moves that would close a loop in the tree are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			var parentID *uuid.UUID
			if parentArg != "" {
				pid, err := parseID(parentArg, "parent category")
				if err != nil {
					return err
				}
				parentID = &pid
			}

			if err := svc.MoveCategory(ctx, id, parentID); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Category moved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentArg, "parent", "", "new parent category id (omit to make it a root)")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Its children are promoted to the deleted category's parent.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := initCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			if err := svc.DeleteCategory(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("Category deleted"))
			return nil
		},
	}
}
