package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/guard"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
)

func newDishesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dishes",
		Short: "Browse the menu",
	}
	cmd.AddCommand(
		newDishesListCmd(app),
		newDishesSearchCmd(app),
		newDishesCategoriesCmd(app),
	)
	return cmd
}

func newDishesListCmd(app *App) *cobra.Command {
	var (
		all      bool
		category string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List dishes",
		Args:    cobra.NoArgs,
		PreRunE: requireAccess(app, "/dishes", guard.Policy{}),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				dishes []model.Dish
				err    error
			)
			switch {
			case category != "":
				dishes, err = app.Dishes.ByCategory(cmd.Context(), category)
			case all:
				dishes, err = app.Dishes.All(cmd.Context())
			default:
				dishes, err = app.Dishes.Available(cmd.Context())
			}
			if err != nil {
				return err
			}
			for i := range dishes {
				printDish(app, &dishes[i])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include unavailable dishes")
	cmd.Flags().StringVar(&category, "category", "", "only one category")
	return cmd
}

func newDishesSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "search <name>",
		Short:   "Search dishes by name",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/dishes", guard.Policy{}),
		RunE: func(cmd *cobra.Command, args []string) error {
			dishes, err := app.Dishes.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for i := range dishes {
				printDish(app, &dishes[i])
			}
			return nil
		},
	}
}

func newDishesCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Short:   "List menu categories",
		Args:    cobra.NoArgs,
		PreRunE: requireAccess(app, "/dishes", guard.Policy{}),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := app.Dishes.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintln(app.Out, c)
			}
			return nil
		},
	}
}

func printDish(app *App, dish *model.Dish) {
	marker := ""
	if !dish.Available {
		marker = " (unavailable)"
	}
	fmt.Fprintf(app.Out, "#%d %s [%s] %.2f%s\n", dish.ID, dish.Name, dish.Category, dish.Price, marker)
}
