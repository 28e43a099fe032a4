package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apperrors "focustracker/internal/errors"
	"focustracker/internal/repository"
	"focustracker/internal/service"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and edit focus categories",
	}
	cmd.AddCommand(
		newCategoriesListCmd(opts),
		newCategoriesAddCmd(opts),
		newCategoriesRenameCmd(opts),
		newCategoriesRemoveCmd(opts),
	)
	return cmd
}

func withCategories(opts *rootOptions, fn func(*service.CategoryService) error) error {
	database, err := opts.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fn(service.NewCategoryService(repository.NewCategoryRepository(database), logger))
}

func newCategoriesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(opts, func(categories *service.CategoryService) error {
				list, apiErr := categories.List(cmd.Context())
				if apiErr != nil {
					return apiErr
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOLOR")
				for _, category := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\n", category.ID, category.Name, category.Color)
				}
				return w.Flush()
			})
		},
	}
}

func newCategoriesAddCmd(opts *rootOptions) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(opts, func(categories *service.CategoryService) error {
				category, apiErr := categories.Create(cmd.Context(), args[0], color)
				if apiErr != nil {
					return apiErr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d %s\n", category.ID, category.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "hex color, picked from the palette when empty")
	return cmd
}

func newCategoriesRenameCmd(opts *rootOptions) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCategories(opts, func(categories *service.CategoryService) error {
				category, apiErr := categories.Update(cmd.Context(), id, args[1], color)
				if apiErr != nil {
					return apiErr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed %d to %s\n", category.ID, category.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "new hex color")
	return cmd
}

func newCategoriesRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a category, keeping its recorded sessions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCategories(opts, func(categories *service.CategoryService) error {
				if apiErr := categories.Delete(cmd.Context(), id); apiErr != nil {
					return apiErr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
				return nil
			})
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest("invalid_id", fmt.Sprintf("invalid category id %q", raw))
	}
	return id, nil
}
