package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finboard-dev/finboard/internal/cli/client"
)

// resource describes one CRUD collection of the finance API
type resource[T any] struct {
	name     string // plural, used for the command
	singular string
	header   []string
	row      func(item T) []any

	list   func(c *client.Client, ctx context.Context) (*client.Envelope[[]T], error)
	create func(c *client.Client, ctx context.Context, item T) (*client.Envelope[T], error)
	update func(c *client.Client, ctx context.Context, id string, fields map[string]any) (*client.Envelope[T], error)
	delete func(c *client.Client, ctx context.Context, id string) (*client.Envelope[struct{}], error)
}

var accountsResource = resource[client.Account]{
	name:     "accounts",
	singular: "account",
	header:   []string{"ID", "NAME", "TYPE", "BALANCE", "CURRENCY"},
	row: func(a client.Account) []any {
		return []any{a.ID, a.Name, a.Type, fmt.Sprintf("%.2f", a.Balance), a.Currency}
	},
	list:   (*client.Client).ListAccounts,
	create: (*client.Client).CreateAccount,
	update: (*client.Client).UpdateAccount,
	delete: (*client.Client).DeleteAccount,
}

var transactionsResource = resource[client.Transaction]{
	name:     "transactions",
	singular: "transaction",
	header:   []string{"ID", "DATE", "TYPE", "CATEGORY", "AMOUNT", "DESCRIPTION"},
	row: func(t client.Transaction) []any {
		return []any{t.ID, t.Date.Format("2006-01-02"), t.Type, t.Category, fmt.Sprintf("%.2f", t.Amount), t.Description}
	},
	list:   (*client.Client).ListTransactions,
	create: (*client.Client).CreateTransaction,
	update: (*client.Client).UpdateTransaction,
	delete: (*client.Client).DeleteTransaction,
}

var budgetsResource = resource[client.Budget]{
	name:     "budgets",
	singular: "budget",
	header:   []string{"ID", "NAME", "CATEGORY", "PERIOD", "SPENT", "AMOUNT"},
	row: func(b client.Budget) []any {
		return []any{b.ID, b.Name, b.Category, b.Period, fmt.Sprintf("%.2f", b.Spent), fmt.Sprintf("%.2f", b.Amount)}
	},
	list:   (*client.Client).ListBudgets,
	create: (*client.Client).CreateBudget,
	update: (*client.Client).UpdateBudget,
	delete: (*client.Client).DeleteBudget,
}

var investmentsResource = resource[client.Investment]{
	name:     "investments",
	singular: "investment",
	header:   []string{"ID", "SYMBOL", "NAME", "SHARES", "AVG PRICE", "PRICE", "VALUE"},
	row: func(i client.Investment) []any {
		return []any{
			i.ID, i.Symbol, i.Name,
			fmt.Sprintf("%g", i.Shares),
			fmt.Sprintf("%.2f", i.AveragePrice),
			fmt.Sprintf("%.2f", i.CurrentPrice),
			fmt.Sprintf("%.2f", i.Shares*i.CurrentPrice),
		}
	},
	list:   (*client.Client).ListInvestments,
	create: (*client.Client).CreateInvestment,
	update: (*client.Client).UpdateInvestment,
	delete: (*client.Client).DeleteInvestment,
}

// NewAccountsCmd creates the accounts command group
func NewAccountsCmd() *cobra.Command { return newResourceCmd(accountsResource) }

// NewTransactionsCmd creates the transactions command group
func NewTransactionsCmd() *cobra.Command { return newResourceCmd(transactionsResource) }

// NewBudgetsCmd creates the budgets command group
func NewBudgetsCmd() *cobra.Command { return newResourceCmd(budgetsResource) }

// NewInvestmentsCmd creates the investments command group
func NewInvestmentsCmd() *cobra.Command { return newResourceCmd(investmentsResource) }

func newResourceCmd[T any](r resource[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage your %s", r.name),
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   fmt.Sprintf("List all %s", r.name),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceList(cmd.Context(), r)
		},
	})

	var createData string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s from JSON", r.singular),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceCreate(cmd.Context(), r, createData)
		},
	}
	createCmd.Flags().StringVar(&createData, "data", "", fmt.Sprintf("%s as JSON", r.singular))
	createCmd.MarkFlagRequired("data")
	cmd.AddCommand(createCmd)

	var updateData string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update fields of a %s", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceUpdate(cmd.Context(), r, args[0], updateData)
		},
	}
	updateCmd.Flags().StringVar(&updateData, "data", "", "changed fields as a JSON object")
	updateCmd.MarkFlagRequired("data")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", r.singular),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceDelete(cmd.Context(), r, args[0])
		},
	})

	return cmd
}

// authenticatedEnv builds the env and fails fast without a session
func authenticatedEnv(opts []Option) (*env, error) {
	e, err := newEnv(opts)
	if err != nil {
		return nil, err
	}
	if !e.api.Session().HasAccessToken() {
		e.Close()
		return nil, ErrNotLoggedIn
	}
	return e, nil
}

func runResourceList[T any](ctx context.Context, r resource[T], opts ...Option) error {
	e, err := authenticatedEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	resp, err := r.list(e.api, ctx)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", r.name, err)
	}
	if err := envelopeError("failed to list "+r.name, resp); err != nil {
		return err
	}

	var items []T
	if resp.Data != nil {
		items = *resp.Data
	}

	if len(items) == 0 {
		e.printf("No %s found.\n", r.name)
		e.printf("\nCreate one with: finboard %s create --data '{...}'\n", r.name)
		return nil
	}

	writeTable(e.out, r.header, len(items), func(i int) []any { return r.row(items[i]) })
	return nil
}

func runResourceCreate[T any](ctx context.Context, r resource[T], data string, opts ...Option) error {
	var item T
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return fmt.Errorf("invalid %s JSON: %w", r.singular, err)
	}

	e, err := authenticatedEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	resp, err := r.create(e.api, ctx, item)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.singular, err)
	}
	if err := envelopeError("failed to create "+r.singular, resp); err != nil {
		return err
	}

	e.printf("✓ Created %s\n", r.singular)
	if resp.Data != nil {
		writeTable(e.out, r.header, 1, func(int) []any { return r.row(*resp.Data) })
	}
	return nil
}

func runResourceUpdate[T any](ctx context.Context, r resource[T], id, data string, opts ...Option) error {
	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return fmt.Errorf("invalid update JSON (expected an object): %w", err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	e, err := authenticatedEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	resp, err := r.update(e.api, ctx, id, fields)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.singular, err)
	}
	if err := envelopeError("failed to update "+r.singular, resp); err != nil {
		return err
	}

	e.printf("✓ Updated %s %s\n", r.singular, id)
	return nil
}

func runResourceDelete[T any](ctx context.Context, r resource[T], id string, opts ...Option) error {
	e, err := authenticatedEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	resp, err := r.delete(e.api, ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.singular, err)
	}
	if err := envelopeError("failed to delete "+r.singular, resp); err != nil {
		return err
	}

	e.printf("✓ Deleted %s %s\n", r.singular, id)
	return nil
}

func writeTable(out io.Writer, header []string, n int, row func(i int) []any) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for i, h := range header {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)

	for i := 0; i < n; i++ {
		for j, cell := range row(i) {
			if j > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}
