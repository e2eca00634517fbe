package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/service"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/catalog"
	"github.com/allstar-electrical/workorders/internal/workorder/pricing"
)

func newTotalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals PRICE:QTY...",
		Short: "Compute subtotal, 13% tax and total",
		Long: `Compute order totals for line items given as PRICE:QTY.

Malformed prices or quantities count as 0, exactly as on the form:
  workorderctl totals 10.00:2 4.25:3 abc:1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]pricing.LineItem, len(args))
			for i, arg := range args {
				price, qty, _ := strings.Cut(arg, ":")
				items[i] = pricing.LineItem{UnitPrice: price, Quantity: qty}
			}
			subtotal, tax, total := pricing.ComputeTotals(items).Formatted()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subtotal  %s\n", subtotal)
			fmt.Fprintf(out, "tax       %s\n", tax)
			fmt.Fprintf(out, "total     %s\n", total)
			return nil
		},
	}
}

func newWeekCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "week [YYYY-MM-DD]",
		Short: "Print the work order week number of a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, err := opts.resolver()
			if err != nil {
				return err
			}
			date := weeks.Today()
			if len(args) == 1 {
				date = args[0]
			}
			week, err := weeks.WeekOfDate(date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  week %d\n", date, week)
			return nil
		},
	}
}

func newWeeksCmd(opts *options) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "weeks TECHNICIAN",
		Short: "List a technician's work orders grouped by week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			groups, err := service.NewWeeklyView(opts.backend(), concurrency).ForTechnician(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintf(out, "no work orders for %s\n", args[0])
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, g := range groups {
				fmt.Fprintf(tw, "Week %s\n", g.Week)
				for _, wo := range g.WorkOrders {
					fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", wo.FolderName, wo.Customer, wo.JobStatus, wo.TotalAfterTax)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 8, "parallel work order fetches")
	return cmd
}

func newPartsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parts NAME",
		Short: "Search the parts catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			parts, err := opts.backend().SearchParts(ctx, args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range parts {
				sel := catalog.SelectPart(p)
				number := ""
				if p.PartNumber != nil {
					number = *p.PartNumber
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", sel.Name, number, sel.UnitPrice)
			}
			return tw.Flush()
		},
	}
}

func newTravelCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "travel LOCATION",
		Short: "Search travel times by location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			rows, err := opts.backend().SearchTravel(ctx, args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range rows {
				fmt.Fprintf(tw, "%s\t%sh\n", t.Location, catalog.TravelHours(t))
			}
			return tw.Flush()
		},
	}
}
