package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/chart"
	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/executors"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
	"github.com/yurifrl/tally/pkg/plan"
	"github.com/yurifrl/tally/pkg/service"
)

func addFilterFlags(cmd *cobra.Command, f *filters) {
	cmd.Flags().StringVar(&f.category, "category", "", "Filter by category (case insensitive)")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Filter by kind (income or expense)")
	cmd.Flags().StringVar(&f.minAmount, "min", "", "Minimum amount")
	cmd.Flags().StringVar(&f.maxAmount, "max", "", "Maximum amount")
	cmd.Flags().StringVar(&f.contains, "contains", "", "Filter by description (case insensitive)")
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>...",
		Short: "Import spreadsheets or directories and show the resulting ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := service.NewSession(a.cfg, a.logger)
			out := cmd.OutOrStdout()

			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("failed to stat %s: %w", path, err)
				}
				if info.IsDir() {
					reports, err := session.ImportDirectory(cmd.Context(), path)
					if err != nil {
						return err
					}
					for _, r := range reports {
						printReport(out, r)
					}
					continue
				}
				report, err := session.Import(path)
				if err != nil {
					return err
				}
				printReport(out, report)
			}

			printTransactions(out, number(session.Transactions()))
			printBalance(out, session.Balance(), session.IsNegative())
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var (
		f   filters
		raw bool
	)
	cmd := &cobra.Command{
		Use:   "list [path]...",
		Short: "List transactions, numbered by position",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.loadSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			txs, err := f.apply(session.Transactions())
			if err != nil {
				return err
			}
			if raw {
				dumpRaw(cmd.OutOrStdout(), txs)
				return nil
			}
			printTransactions(cmd.OutOrStdout(), txs)
			printBalance(cmd.OutOrStdout(), session.Balance(), session.IsNegative())
			return nil
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().BoolVar(&raw, "raw", false, "Dump transactions as Go values")
	return cmd
}

type addOptions struct {
	kind        string
	amount      string
	category    string
	description string
	source      string
	method      string
}

func (o addOptions) build() (*models.Transaction, error) {
	kind, err := models.ParseKind(o.kind)
	if err != nil {
		return nil, err
	}
	if kind == models.KindNone {
		return nil, parser.ErrKindRequired
	}
	amount, err := decimal.NewFromString(o.amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrTypeValidation, o.amount)
	}

	b := models.NewTransaction(o.category, o.description).SetAmount(amount)
	switch kind {
	case models.KindIncome:
		b.AsIncome(o.source)
	case models.KindExpense:
		b.AsExpense(o.method)
	}
	return b.Build()
}

func (a *app) addCmd() *cobra.Command {
	var o addOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction in the backing file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.File == "" {
				return service.ErrNoBackingFile
			}
			tx, err := o.build()
			if err != nil {
				return err
			}

			if _, err := os.Stat(a.cfg.File); errors.Is(err, fs.ErrNotExist) {
				if err := service.NewSession(a.cfg, a.logger).Parser().Create(a.cfg.File); err != nil {
					return err
				}
				a.logger.Info("created backing file", "file", a.cfg.File)
			}

			session, err := a.loadSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if err := session.Record(tx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", tx.Render())
			printBalance(cmd.OutOrStdout(), session.Balance(), session.IsNegative())
			return nil
		},
	}
	cmd.Flags().StringVar(&o.kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&o.amount, "amount", "", "Amount; expenses are negative")
	cmd.Flags().StringVar(&o.category, "category", "", "Category")
	cmd.Flags().StringVar(&o.description, "description", "", "Description")
	cmd.Flags().StringVar(&o.source, "source", "", "Source of an income")
	cmd.Flags().StringVar(&o.method, "method", "", "Payment method of an expense")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [path]...",
		Short: "Show totals per category and the balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.loadSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			printTotals(cmd.OutOrStdout(), session.CategoryTotals())
			printBalance(cmd.OutOrStdout(), session.Balance(), session.IsNegative())
			return nil
		},
	}
}

func (a *app) chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [path]...",
		Short: "Draw category totals as a bar chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.loadSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			return chart.Render(cmd.OutOrStdout(), session.CategoryTotals(), a.cfg.ChartWidth)
		},
	}
	cmd.Flags().Int("width", chart.DefaultWidth, "Width of the longest bar")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		f      filters
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [path]...",
		Short: "Export transactions as csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.loadSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			filter, err := f.toFilterFunc()
			if err != nil {
				return err
			}
			data, err := csv.Create(session.Transactions(), filter)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.Info("exported transactions", "file", output)
			return nil
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default is stdout)")
	return cmd
}

func (a *app) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <plan_file>",
		Short: "Preview a YAML plan of transactions (dry-run)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			session := service.NewSession(a.cfg, a.logger)
			exec := executors.New(a.logger, session, a.cfg.MatchByFingerprint)

			fmt.Fprintf(cmd.OutOrStdout(), "Plan preview for %s\n", args[0])
			p.Print(cmd.OutOrStdout())
			_, err = exec.Plan(p, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().Bool("fingerprint", true, "Match existing rows by fingerprint instead of by fields")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <plan_file>",
		Short: "Append the transactions of a YAML plan that are missing from the backing file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			session := service.NewSession(a.cfg, a.logger)
			exec := executors.New(a.logger, session, a.cfg.MatchByFingerprint)

			added, err := exec.Apply(p)
			if err != nil {
				return err
			}
			target := session.BackingFile()
			if p.File != "" {
				target = p.File
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied: %d transaction(s) added to %s\n", added, target)
			return nil
		},
	}
	cmd.Flags().Bool("fingerprint", true, "Match existing rows by fingerprint instead of by fields")
	return cmd
}
