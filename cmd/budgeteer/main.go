package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"budgeteer/internal/amqp"
	"budgeteer/internal/cli"
	"budgeteer/internal/config"
	"budgeteer/internal/core"
	"budgeteer/internal/provider"
	"budgeteer/internal/report"
	"budgeteer/internal/store"
)

const usage = `Usage: budgeteer <command> [flags]

Commands:
  setup                 Initialize the data directory and config templates
  accounts              Fetch connected bank accounts
  fetch [-days 30]      Fetch and categorize transactions
  budget set            Set a budget limit (-category, -limit, -period)
  budget status         Check budget status (-period)
  report [-period]      Generate a spending report
`

// app wires a single command invocation: one logger, one config, one
// snapshot store. Nothing is shared across invocations except the files
// on disk.
type app struct {
	logger    *slog.Logger
	cfg       *config.Config
	files     *store.FileStore
	snapshots store.Store
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	a := &app{
		logger:    logger,
		cfg:       cfg,
		files:     store.NewFileStore(cfg.DataDir),
		snapshots: cli.OpenSnapshotStore(logger, cfg),
	}
	defer a.snapshots.Close()

	ctx := context.Background()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "setup":
		err = a.setup()
	case "accounts":
		err = a.fetchAccounts(ctx)
	case "fetch":
		err = a.fetchTransactions(ctx, args)
	case "budget":
		err = a.budget(ctx, args)
	case "report":
		err = a.report(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func (a *app) configPath() string {
	return filepath.Join(a.cfg.DataDir, "config.json")
}

// setup creates the data directory tree and config templates. Existing
// files are left alone so re-running setup is always safe.
func (a *app) setup() error {
	if err := a.files.EnsureDirs(); err != nil {
		return err
	}
	fmt.Printf("✓ Created data directory: %s\n", a.cfg.DataDir)

	if _, err := os.Stat(a.configPath()); errors.Is(err, os.ErrNotExist) {
		template := config.Provider{AccessURL: config.PlaceholderAccessURL}
		if err := config.SaveProvider(a.configPath(), template); err != nil {
			return err
		}
		fmt.Println("✓ Created config.json (add your access URL or sandbox credentials here)")
	} else {
		fmt.Println("✓ config.json already exists")
	}

	if table, err := a.files.LoadBudgets(); err != nil {
		return err
	} else if table == nil {
		template := core.BudgetTable{core.Monthly: {}, core.Weekly: {}}
		if err := a.files.SaveBudgets(template); err != nil {
			return err
		}
		fmt.Println("✓ Created budgets.json with defaults")
	} else {
		fmt.Println("✓ budgets.json already exists")
	}

	fmt.Println("\nSetup complete. Next steps:")
	fmt.Println("1. Connect your bank with your aggregation provider")
	fmt.Printf("2. Edit %s and paste your credentials\n", a.configPath())
	fmt.Println("3. Run: budgeteer accounts")
	fmt.Println("4. Run: budgeteer fetch -days 30")
	return nil
}

// fetchAccounts pulls the account list from the active provider and
// replaces the accounts snapshot.
func (a *app) fetchAccounts(ctx context.Context) error {
	prov, err := config.LoadProvider(a.configPath())
	if err != nil {
		return err
	}

	accounts, err := a.providerAccounts(ctx, prov)
	if err != nil {
		return err
	}
	if err := a.snapshots.SaveAccounts(ctx, accounts); err != nil {
		return err
	}
	a.logger.Info("Accounts snapshot saved", "count", len(accounts), "provider", prov.Kind())

	fmt.Printf("✓ Fetched %d accounts\n\nAccounts:\n", len(accounts))
	for _, acc := range accounts {
		if balance, err := strconv.ParseFloat(acc.Balance, 64); err == nil {
			fmt.Printf("  - %s (%s): $%.2f\n", acc.Name, acc.Org.Name, balance)
		} else {
			fmt.Printf("  - %s (%s): %s\n", acc.Name, acc.Org.Name, acc.Balance)
		}
	}
	return nil
}

func (a *app) providerAccounts(ctx context.Context, prov config.Provider) ([]provider.Account, error) {
	switch prov.Kind() {
	case config.ProviderSimpleFIN:
		client, err := provider.NewSimpleFIN(prov.AccessURL, a.cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		return client.Accounts(ctx)
	default:
		client, err := provider.NewSandbox(prov.APIURL, prov.ClientID, prov.SandboxSecret, a.cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		return client.Accounts(ctx)
	}
}

// fetchTransactions builds the raw payload for the active provider,
// normalizes and categorizes it, and replaces the transactions snapshot.
func (a *app) fetchTransactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	days := fs.Int("days", 30, "number of days to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prov, err := config.LoadProvider(a.configPath())
	if err != nil {
		return err
	}
	rules, err := a.files.LoadRules()
	if err != nil {
		return err
	}

	payload, err := a.providerPayload(ctx, prov, *days)
	if err != nil {
		return err
	}

	txns, err := provider.Normalize(payload, rules)
	if err != nil {
		return err
	}
	if err := a.snapshots.SaveTransactions(ctx, txns); err != nil {
		return err
	}
	a.logger.Info("Transactions snapshot saved", "count", len(txns), "provider", prov.Kind())

	fmt.Printf("✓ Processed %d transactions\n\nSummary by category:\n", len(txns))
	summary := report.Aggregate(txns, time.Time{})
	for _, ct := range summary.Categories() {
		fmt.Printf("  %s: $%.2f\n", ct.Category, ct.Amount.Dollars())
	}

	a.publishSnapshot(ctx, prov.Kind(), len(txns))
	return nil
}

func (a *app) providerPayload(ctx context.Context, prov config.Provider, days int) (provider.Payload, error) {
	switch prov.Kind() {
	case config.ProviderSimpleFIN:
		// SimpleFIN embeds transactions in the accounts snapshot, so a
		// fetch works from the stored accounts rather than the network.
		accounts, err := a.snapshots.LoadAccounts(ctx)
		if err != nil {
			return provider.Payload{}, err
		}
		if accounts == nil {
			return provider.Payload{}, fmt.Errorf("%w; run: budgeteer accounts", core.ErrNoAccounts)
		}
		return provider.Payload{Kind: provider.KindSimpleFIN, Accounts: accounts}, nil
	default:
		client, err := provider.NewSandbox(prov.APIURL, prov.ClientID, prov.SandboxSecret, a.cfg.HTTPTimeout)
		if err != nil {
			return provider.Payload{}, err
		}
		end := time.Now().UTC()
		start := end.Add(-time.Duration(days) * 24 * time.Hour)
		txns, err := client.Transactions(ctx, start, end)
		if err != nil {
			return provider.Payload{}, err
		}
		return provider.Payload{Kind: provider.KindSandbox, Sandbox: txns}, nil
	}
}

// publishSnapshot notifies the export worker. AMQP is optional and a
// publish failure must not fail the fetch that already persisted.
func (a *app) publishSnapshot(ctx context.Context, providerKind string, count int) {
	if a.cfg.AMQPURL == "" {
		return
	}
	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		a.logger.Warn("Failed to connect to AMQP, skipping snapshot sync", "error", err)
		return
	}
	defer client.Close()
	if err := client.PublishSnapshotSaved(ctx, providerKind, count); err != nil {
		a.logger.Warn("Failed to publish snapshot message", "error", err)
	}
}

func (a *app) budget(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: budgeteer budget <set|status> [flags]")
	}
	switch args[0] {
	case "set":
		return a.budgetSet(args[1:])
	case "status":
		return a.budgetStatus(ctx, args[1:])
	default:
		return fmt.Errorf("unknown budget subcommand %q", args[0])
	}
}

func (a *app) budgetSet(args []string) error {
	fs := flag.NewFlagSet("budget set", flag.ExitOnError)
	categoryName := fs.String("category", "", "budget category")
	limit := fs.Float64("limit", 0, "budget limit amount")
	periodName := fs.String("period", "monthly", "budget period (monthly|weekly)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *categoryName == "" {
		return errors.New("budget set: -category is required")
	}
	if *limit < 0 {
		return errors.New("budget set: -limit must not be negative")
	}
	period, err := core.ParsePeriod(*periodName)
	if err != nil {
		return fmt.Errorf("budget set: %w: %q", err, *periodName)
	}

	table, err := a.files.LoadBudgets()
	if err != nil {
		return err
	}
	if table == nil {
		table = make(core.BudgetTable)
	}
	table.Set(period, *categoryName, *limit)
	if err := a.files.SaveBudgets(table); err != nil {
		return err
	}

	fmt.Printf("✓ Set %s budget for %s: $%.2f\n\nCurrent %s budgets:\n", period, *categoryName, *limit, period)
	for _, line := range budgetLines(table.Limits(period)) {
		fmt.Println(line)
	}
	return nil
}

func (a *app) budgetStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget status", flag.ExitOnError)
	periodName := fs.String("period", "monthly", "budget period (monthly|weekly)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	period, err := core.ParsePeriod(*periodName)
	if err != nil {
		return fmt.Errorf("budget status: %w: %q", err, *periodName)
	}

	table, err := a.files.LoadBudgets()
	if err != nil {
		return err
	}
	limits := table.Limits(period)
	if len(limits) == 0 {
		return fmt.Errorf("%w for period %s; run: budgeteer budget set", core.ErrNoBudgets, period)
	}

	txns, err := a.snapshots.LoadTransactions(ctx)
	if err != nil {
		return err
	}
	if txns == nil {
		return fmt.Errorf("%w; run: budgeteer fetch", core.ErrNoTransactions)
	}

	start := report.PeriodStart(period, time.Now())
	summary := report.Aggregate(txns, start)
	statuses := report.Evaluate(limits, summary.ByCategory)

	fmt.Printf("\n%s BUDGET STATUS\n%s\n\n", strings.ToUpper(string(period)), strings.Repeat("=", 50))
	for _, st := range statuses {
		fmt.Printf("%s:\n", st.Category)
		fmt.Printf("  Spent: $%.2f / $%.2f (%s%%)\n", st.Spent.Dollars(), st.Limit.Dollars(), formatPercentage(st.Percentage))
		fmt.Printf("  Remaining: $%.2f\n", st.Remaining.Dollars())
		if st.OverBudget {
			fmt.Printf("  Status: ⚠️  OVER BUDGET\n\n")
		} else {
			fmt.Printf("  Status: ✓ On track\n\n")
		}
	}
	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	periodName := fs.String("period", "monthly", "report period (monthly|weekly)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	period, err := core.ParsePeriod(*periodName)
	if err != nil {
		return fmt.Errorf("report: %w: %q", err, *periodName)
	}

	txns, err := a.snapshots.LoadTransactions(ctx)
	if err != nil {
		return err
	}
	if txns == nil {
		return fmt.Errorf("%w; run: budgeteer fetch", core.ErrNoTransactions)
	}

	now := time.Now().UTC()
	start := report.PeriodStart(period, now)
	summary := report.Aggregate(txns, start)

	fmt.Printf("\n%s SPENDING REPORT\n%s\n\n", strings.ToUpper(string(period)), strings.Repeat("=", 50))
	fmt.Printf("Period: %s to %s\n", start.Format("2006-01-02"), now.Format("2006-01-02"))
	fmt.Printf("Total transactions: %d\n", summary.Count)
	fmt.Printf("Total spent: $%.2f\n\n", summary.TotalSpent.Dollars())

	fmt.Println("SPENDING BY CATEGORY:")
	for _, ct := range summary.Categories() {
		share := 0.0
		if summary.TotalSpent.Cents > 0 {
			share = float64(ct.Amount.Cents) / float64(summary.TotalSpent.Cents) * 100
		}
		fmt.Printf("  %s: $%.2f (%.1f%%)\n", ct.Category, ct.Amount.Dollars(), share)
	}

	fmt.Println("\nTOP 10 MERCHANTS:")
	for i, mt := range summary.TopMerchants(10) {
		fmt.Printf("  %d. %s: $%.2f\n", i+1, mt.Merchant, mt.Amount.Dollars())
	}
	return nil
}

func formatPercentage(pct float64) string {
	if math.IsInf(pct, 1) {
		return "∞"
	}
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

// budgetLines renders a period's limits sorted by category name.
func budgetLines(limits map[string]float64) []string {
	statuses := report.Evaluate(limits, nil)
	lines := make([]string, 0, len(statuses))
	for _, st := range statuses {
		lines = append(lines, fmt.Sprintf("  %s: $%.2f", st.Category, st.Limit.Dollars()))
	}
	return lines
}
