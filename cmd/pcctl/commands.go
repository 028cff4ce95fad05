package main

import (
	"context"
	"iter"

	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
	"github.com/Sternrassler/partner-center-client/pkg/pagination"
	"github.com/Sternrassler/partner-center-client/pkg/partnercenter"
	"github.com/Sternrassler/partner-center-client/pkg/resource"
	"github.com/spf13/cobra"
)

// pagedFlags are shared by the list commands.
type pagedFlags struct {
	pageSize    int
	parallel    bool
	concurrency int
}

func (f *pagedFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pageSize, "page-size", partnercenter.DefaultPageSize, "items requested per page")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "fetch all pages concurrently after the first one")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", pagination.DefaultConfig().MaxConcurrency, "concurrent page requests with --parallel")
}

// pagedSource is what the list commands need from a collection.
type pagedSource[T any] interface {
	enumerator.Fetcher[T]
	Query(offset, size int) enumerator.Query
	Get(ctx context.Context, offset, size int) (*resource.Collection[T], error)
	Enumerators(offset, size int) (enumerator.Factory[T], error)
}

// listAll prints every item of src, either page by page through an
// enumerator or with a parallel batch fetch.
func listAll[T any](ctx context.Context, a *app, src pagedSource[T], f pagedFlags) error {
	if f.parallel {
		bf := pagination.NewBatchFetcher[T](src, pagination.Config{MaxConcurrency: f.concurrency})
		items, err := bf.FetchAll(ctx, src.Query(0, f.pageSize))
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := a.printJSON(item); err != nil {
				return err
			}
		}
		return nil
	}

	first, err := src.Get(ctx, 0, f.pageSize)
	if err != nil {
		return err
	}
	factory, err := src.Enumerators(0, f.pageSize)
	if err != nil {
		return err
	}
	e, err := factory.Create(first)
	if err != nil {
		return err
	}
	return printSeq(a, enumerator.Items(ctx, e))
}

func printSeq[T any](a *app, seq iter.Seq2[T, error]) error {
	for item, err := range seq {
		if err != nil {
			return err
		}
		if err := a.printJSON(item); err != nil {
			return err
		}
	}
	return nil
}

func newOffersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Offer catalog",
	}

	var country string
	var flags pagedFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the offers available in a country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAll[partnercenter.Offer](cmd.Context(), a, a.partner.Offers(country), flags)
		},
	}
	listCmd.Flags().StringVar(&country, "country", "US", "ISO 3166 alpha-2 country code")
	flags.register(listCmd)

	cmd.AddCommand(listCmd)
	return cmd
}

func newInvoicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Partner invoices",
	}

	var flags pagedFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAll[partnercenter.Invoice](cmd.Context(), a, a.partner.Invoices(), flags)
		},
	}
	flags.register(listCmd)

	getCmd := &cobra.Command{
		Use:   "get <invoice-id>",
		Short: "Get one invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.partner.Invoices().ByID(args[0]).Get(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(inv)
		},
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

type domainResult struct {
	Domain string `json:"domain"`
	Exists bool   `json:"exists"`
}

func newDomainsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Domain availability",
	}

	checkCmd := &cobra.Command{
		Use:   "check <domain>...",
		Short: "Check whether domains are already taken",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range args {
				exists, err := a.partner.Domains().ByDomain(d).Exists(cmd.Context())
				if err != nil {
					return err
				}
				if err := a.printJSON(domainResult{Domain: d, Exists: exists}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(checkCmd)
	return cmd
}

func newCustomersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer resources",
	}

	getCmd := &cobra.Command{
		Use:   "get <customer-id>",
		Short: "Get a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.partner.Customers().ByID(args[0]).Get(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(c)
		},
	}

	skusCmd := &cobra.Command{
		Use:   "skus <customer-id>",
		Short: "List the SKUs a customer is subscribed to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.partner.Customers().ByID(args[0]).SubscribedSkus().Get(cmd.Context())
			if err != nil {
				return err
			}
			for _, sku := range page.Items {
				if err := a.printJSON(sku); err != nil {
					return err
				}
			}
			return nil
		},
	}

	servicesCmd := &cobra.Command{
		Use:   "services <customer-id>",
		Short: "List the services managed for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.partner.Customers().ByID(args[0]).ManagedServices().Get(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range page.Items {
				if err := a.printJSON(s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	var validationType string
	validationCmd := &cobra.Command{
		Use:   "validation <customer-id>",
		Short: "Show a customer's validation status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.partner.Customers().ByID(args[0]).ValidationStatus(validationType).Get(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(status)
		},
	}
	validationCmd.Flags().StringVar(&validationType, "type", partnercenter.ValidationTypeAccount, "validation type")

	cmd.AddCommand(getCmd, skusCmd, servicesCmd, validationCmd)
	return cmd
}
