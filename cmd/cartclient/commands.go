package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/internal/localcart"
	"github.com/dwikikusuma/storefront-ops/internal/reconcile"
	"github.com/dwikikusuma/storefront-ops/pkg/config"
)

type options struct {
	server string
	dir    string
	user   string
	role   string
}

func newRootCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	opts := &options{server: cfg.CartServerURL, dir: cfg.LocalCartDir}

	root := &cobra.Command{
		Use:          "cartclient",
		Short:        "Local cart with login-time reconciliation",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", opts.server, "storefront base URL")
	root.PersistentFlags().StringVar(&opts.dir, "dir", opts.dir, "local cart directory")

	var qty int
	addCmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the local cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := fetchLine(cmd.Context(), opts.server, args[0])
			if err != nil {
				return err
			}
			return withStore(opts, log, func(s *localcart.Store) error {
				s.Add(line, qty)
				return printCart(cmd, s)
			})
		},
	}
	addCmd.Flags().IntVarP(&qty, "qty", "q", 1, "quantity to add")

	setCmd := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Replace a line's quantity; zero removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			return withStore(opts, log, func(s *localcart.Store) error {
				s.SetQuantity(args[0], n)
				return printCart(cmd, s)
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the local cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, log, func(s *localcart.Store) error {
				s.Remove(args[0])
				return printCart(cmd, s)
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(opts, log, func(s *localcart.Store) error {
				return printCart(cmd, s)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(opts, log, func(s *localcart.Store) error {
				s.Clear()
				return printCart(cmd, s)
			})
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and merge the local cart into the server cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			return withStore(opts, log, func(s *localcart.Store) error {
				svc := reconcile.New(s, reconcile.NewHTTPSyncer(opts.server), log)
				if !svc.LoggedIn(cmd.Context(), actor) {
					fmt.Fprintln(cmd.OutOrStdout(), "signed in; server cart unreachable, keeping local cart")
				}
				return printCart(cmd, s)
			})
		},
	}
	loginCmd.Flags().StringVar(&opts.user, "user", "", "actor id")
	loginCmd.Flags().StringVar(&opts.role, "role", identity.RoleCustomer.String(), "actor role")
	_ = loginCmd.MarkFlagRequired("user")

	root.AddCommand(addCmd, setCmd, removeCmd, listCmd, clearCmd, loginCmd)
	return root
}

func (o *options) actor() (identity.Actor, error) {
	role, err := identity.ParseRole(o.role)
	if err != nil {
		return identity.Actor{}, err
	}
	return identity.Actor{ID: o.user, Role: role}, nil
}

func withStore(o *options, log *slog.Logger, fn func(*localcart.Store) error) error {
	file, err := localcart.OpenPebble(o.dir)
	if err != nil {
		return err
	}
	defer file.Close()

	s, err := localcart.Open(file, log)
	if err != nil {
		return err
	}
	return fn(s)
}

func printCart(cmd *cobra.Command, s *localcart.Store) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range s.Lines() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ProductID, l.Product.Name, l.Quantity, l.UnitPrice, l.Subtotal())
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", s.Count(), s.Total())
	return tw.Flush()
}
