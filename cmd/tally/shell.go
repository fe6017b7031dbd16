package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/chart"
	"github.com/yurifrl/tally/pkg/service"
)

const prompt = "tally> "

var errQuit = errors.New("quit")

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [path]...",
		Short: "Work on a ledger interactively",
		Long: `Starts an interactive session. Paths given on the command line, or the
configured backing file, are imported first. Type "help" for the commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.loadSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			sh := &shell{app: a, session: session, out: cmd.OutOrStdout()}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type shell struct {
	app     *app
	session *service.Session
	out     io.Writer
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, prompt)
	for scanner.Scan() {
		args, err := tokenize(scanner.Text())
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		} else if len(args) > 0 {
			err := s.exec(ctx, args)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(s.out, "error:", err)
			}
		}
		fmt.Fprint(s.out, prompt)
	}
	return scanner.Err()
}

// tokenize splits a shell line on spaces. Double quotes group words.
func tokenize(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true

	record, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	args := record[:0]
	for _, field := range record {
		if field != "" {
			args = append(args, field)
		}
	}
	return args, nil
}

// exec runs one line. The command tree is rebuilt each time so flag values
// do not leak from one line to the next.
func (s *shell) exec(ctx context.Context, args []string) error {
	root := s.commands()
	root.SetArgs(args)
	root.SetOut(s.out)
	root.SetErr(s.out)
	return root.ExecuteContext(ctx)
}

func (s *shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "tally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	var f filters
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := f.apply(s.session.Transactions())
			if err != nil {
				return err
			}
			printTransactions(s.out, txs)
			return nil
		},
	}
	addFilterFlags(list, &f)

	root.AddCommand(
		&cobra.Command{
			Use:                "add <kind> <amount> <category> [description] [source|method]",
			Short:              "Record a transaction",
			Args:               cobra.RangeArgs(3, 5),
			DisableFlagParsing: true, // negative amounts are not flags
			RunE: func(cmd *cobra.Command, args []string) error {
				o := addOptions{kind: args[0], amount: args[1], category: args[2]}
				if len(args) > 3 {
					o.description = args[3]
				}
				if len(args) > 4 {
					o.source, o.method = args[4], args[4]
				}
				tx, err := o.build()
				if err != nil {
					return err
				}
				if err := s.session.Record(tx); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "Added %s\n", tx.Render())
				printBalance(s.out, s.session.Balance(), s.session.IsNegative())
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <position>",
			Short: "Remove the transaction at a position shown by list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				position, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("position must be a number: %q", args[0])
				}
				removed, err := s.session.Remove(position)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "Removed %s\n", removed.Render())
				printBalance(s.out, s.session.Balance(), s.session.IsNegative())
				return nil
			},
		},
		&cobra.Command{
			Use:   "balance",
			Short: "Show the balance",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printBalance(s.out, s.session.Balance(), s.session.IsNegative())
			},
		},
		list,
		&cobra.Command{
			Use:   "summary",
			Short: "Show totals per category",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printTotals(s.out, s.session.CategoryTotals())
			},
		},
		&cobra.Command{
			Use:   "chart",
			Short: "Draw category totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return chart.Render(s.out, s.session.CategoryTotals(), s.app.cfg.ChartWidth)
			},
		},
		&cobra.Command{
			Use:   "import <path>",
			Short: "Import a spreadsheet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				report, err := s.session.Import(args[0])
				if err != nil {
					return err
				}
				printReport(s.out, report)
				printBalance(s.out, s.session.Balance(), s.session.IsNegative())
				return nil
			},
		},
		&cobra.Command{
			Use:   "file [path]",
			Short: "Show or set the backing file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					if err := s.session.SetBackingFile(args[0]); err != nil {
						return err
					}
				}
				file := s.session.BackingFile()
				if file == "" {
					file = "(none)"
				}
				fmt.Fprintf(s.out, "Backing file: %s\n", file)
				return nil
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the shell",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return errQuit
			},
		},
	)
	return root
}
