package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"product-catalog/internal/catalog"
	"product-catalog/internal/viewmodel"
)

func newListCmd(a *app) *cobra.Command {
	var search, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show catalog statistics and the matching products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.vm.SetSearchTerm(search)
			a.vm.SetFilterCategory(category)
			err := a.vm.Refresh(cmd.Context())
			renderView(cmd.OutOrStdout(), a.vm.Snapshot())
			return err
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or description, case-insensitive")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}

// formFlags binds the editable product fields to command flags.
type formFlags struct {
	name, description, price, category, status string
	stock                                      int
}

func (f *formFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "product name")
	fs.StringVar(&f.description, "description", "", "product description")
	fs.StringVar(&f.price, "price", "0", "unit price, e.g. 12.50")
	fs.IntVar(&f.stock, "stock", 0, "quantity on hand")
	fs.StringVar(&f.category, "category", "", "product category")
	fs.StringVar(&f.status, "status", string(catalog.StatusActive), "active or inactive")
}

// apply copies the flags the user set onto in.
func (f *formFlags) apply(fs *pflag.FlagSet, in *catalog.ProductInput) error {
	if fs.Changed("name") {
		in.Name = f.name
	}
	if fs.Changed("description") {
		in.Description = f.description
	}
	if fs.Changed("price") {
		p, err := decimal.NewFromString(f.price)
		if err != nil {
			return fmt.Errorf("invalid --price %q", f.price)
		}
		in.Price = p
	}
	if fs.Changed("stock") {
		in.Stock = f.stock
	}
	if fs.Changed("category") {
		in.Category = f.category
	}
	if fs.Changed("status") {
		in.Status = catalog.Status(f.status)
	}
	return nil
}

// checkForm validates in. The configured category list is enforced only when
// checkCategory is set.
func (a *app) checkForm(in *catalog.ProductInput, checkCategory bool) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if checkCategory && !slices.Contains(a.cfg.Categories, in.Category) {
		return fmt.Errorf("category must be one of: %s", strings.Join(a.cfg.Categories, ", "))
	}
	return nil
}

// afterMutation reports the outcome of a create, update or delete. When only
// the follow-up refresh failed the change is still reported as done.
func (a *app) afterMutation(cmd *cobra.Command, err error, done string) error {
	if err != nil && viewmodel.KindOf(err) != viewmodel.FetchFailed {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	if err != nil {
		return err
	}
	renderStats(cmd.OutOrStdout(), a.vm.Stats())
	return nil
}

func newCreateCmd(a *app) *cobra.Command {
	var f formFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := a.vm.OpenForm(nil)
			if err := f.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			if err := a.checkForm(&in, true); err != nil {
				return err
			}
			return a.afterMutation(cmd, a.vm.Submit(cmd.Context(), in), "Product created.")
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f formFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a product; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.vm.Refresh(cmd.Context()); err != nil {
				return err
			}
			p, ok := findProduct(a.vm.Products(), id)
			if !ok {
				return fmt.Errorf("product %d not found", id)
			}

			in := a.vm.OpenForm(&p)
			if err := f.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			// An existing category is sent back as is, even if it is no longer configured.
			if err := a.checkForm(&in, cmd.Flags().Changed("category")); err != nil {
				return err
			}
			return a.afterMutation(cmd, a.vm.Submit(cmd.Context(), in), "Product updated.")
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if assumeYes {
				confirm = func(string) bool { return true }
			}

			err = a.vm.Remove(cmd.Context(), id, confirm)
			if errors.Is(err, viewmodel.ErrNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return a.afterMutation(cmd, err, "Product deleted.")
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the selectable categories",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, c := range a.cfg.Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}

func findProduct(products []catalog.Product, id int64) (catalog.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}
