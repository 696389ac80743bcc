package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sevencollector/fintracker/internal/advisor"
	"github.com/sevencollector/fintracker/internal/analytics"
	"github.com/sevencollector/fintracker/internal/config"
	"github.com/sevencollector/fintracker/internal/ledger"
	"github.com/sevencollector/fintracker/internal/logger"
	"github.com/sevencollector/fintracker/internal/onboarding"
	"github.com/sevencollector/fintracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(cfg, log)
	case "add":
		runAdd(cfg, log)
	case "edit":
		runEdit(cfg, log)
	case "list":
		runList(cfg, log)
	case "inspect":
		runInspect(cfg, log)
	case "insight":
		runInsight(cfg, log)
	case "chat":
		runChat(cfg, log)
	case "limits":
		runLimits(cfg, log)
	case "export":
		runExport(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Fintracker CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  init      Create the initial snapshot from your profile")
	fmt.Println("  add       Record a transaction")
	fmt.Println("  edit      Edit an existing transaction by id")
	fmt.Println("  list      List transactions")
	fmt.Println("  inspect   Show the current snapshot summary")
	fmt.Println("  insight   Ask the advisor for a financial insight")
	fmt.Println("  chat      Follow up on the last insight")
	fmt.Println("  limits    Ask the advisor for category limit suggestions")
	fmt.Println("  export    Export transactions to BigQuery")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func snapshotStore(cfg *config.Config) store.SnapshotStore {
	if cfg.GCSBucket != "" {
		return store.NewGCSStore(cfg.GCSBucket, cfg.SnapshotObject)
	}
	return store.NewFileStore(cfg.DataFile)
}

func mustLoad(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.SnapshotStore, *ledger.Snapshot) {
	st := snapshotStore(cfg)
	snap, err := st.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot (run 'cli init' first?)")
	}
	return st, snap
}

func mustSave(ctx context.Context, st store.SnapshotStore, snap *ledger.Snapshot, log zerolog.Logger) {
	if err := st.Save(ctx, snap); err != nil {
		log.Fatal().Err(err).Msg("Failed to save snapshot")
	}
}

func mustAdvisor(ctx context.Context, cfg *config.Config, log zerolog.Logger) advisor.Service {
	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("GOOGLE_API_KEY is not set")
	}
	client, err := advisor.NewClient(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create advisor client")
	}
	return client
}

func runInit(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	name := fs.String("name", "", "your name")
	age := fs.Int("age", 0, "your age")
	gender := fs.String("gender", "", "your gender")
	income := fs.Float64("income", 0, "monthly income")
	savings := fs.Float64("savings", 0, "planned monthly saving")
	taxRate := fs.Float64("tax-rate", 0, "tax rate in percent")
	categories := fs.String("categories", "", "comma-separated category names (default: predefined set)")
	goals := fs.String("goals", "", "comma-separated goals as name:total")
	suggest := fs.Bool("suggest-limits", false, "ask the advisor for category limits")
	fs.Parse(os.Args[2:])

	if *name == "" || *income <= 0 {
		log.Fatal().Msg("Usage: cli init -name NAME -income AMOUNT [options]")
	}

	b := &onboarding.Builder{
		Name:    *name,
		Age:     *age,
		Gender:  *gender,
		Income:  *income,
		Savings: *savings,
		TaxRate: *taxRate,
	}
	if *categories == "" {
		for _, c := range onboarding.PredefinedCategories {
			b.AddCategory(c)
		}
	} else {
		for _, c := range strings.Split(*categories, ",") {
			if c = strings.TrimSpace(c); c != "" {
				b.AddCategory(c)
			}
		}
	}
	for _, g := range strings.Split(*goals, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		name, totalStr, ok := strings.Cut(g, ":")
		if !ok {
			log.Fatal().Str("goal", g).Msg("Goals must be name:total")
		}
		total, err := strconv.ParseFloat(totalStr, 64)
		if err != nil {
			log.Fatal().Str("goal", g).Msg("Goal total must be a number")
		}
		b.AddGoal(name, total)
	}

	ctx := logger.WithContext(context.Background(), log)

	if *suggest {
		b.SuggestLimits(ctx, mustAdvisor(ctx, cfg, log))
	}

	snap := b.Build()
	mustSave(ctx, snapshotStore(cfg), snap, log)

	fmt.Printf("Snapshot created for %s: balance %.2f, income %.2f\n", snap.Name, snap.Balance, snap.Income)
}

func transactionFlags(fs *flag.FlagSet) (txType, amount, desc, category, goal, date *string) {
	txType = fs.String("type", "Expense", "transaction type: Expense, Income, Savings, Taxes, Goal")
	amount = fs.String("amount", "", "amount")
	desc = fs.String("desc", "", "description")
	category = fs.String("category", "", "category name (for expenses)")
	goal = fs.String("goal", "", "goal name (for goal deposits)")
	date = fs.String("date", "", "date as YYYY-MM-DD (default: today)")
	return
}

func buildForm(txType, amount, desc, category, goal, date string, log zerolog.Logger) ledger.FormState {
	form := ledger.NewFormState()
	form.Type = ledger.TransactionType(txType)
	form.Amount = amount
	form.Description = desc
	form.Category = category
	form.Goal = goal
	if date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			log.Fatal().Str("date", date).Msg("Date must be YYYY-MM-DD")
		}
		form.DateMillis = t.UnixMilli()
	}
	return form
}

func runAdd(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	txType, amount, desc, category, goal, date := transactionFlags(fs)
	fs.Parse(os.Args[2:])

	if *amount == "" || *desc == "" {
		log.Fatal().Msg("Usage: cli add -amount AMOUNT -desc TEXT [options]")
	}

	ctx := logger.WithContext(context.Background(), log)
	st, snap := mustLoad(ctx, cfg, log)

	form := buildForm(*txType, *amount, *desc, *category, *goal, *date, log)
	engine := &ledger.Engine{FullRevert: cfg.FullRevert}
	tx := engine.Apply(snap, form.Intent(snap))

	mustSave(ctx, st, snap, log)

	fmt.Printf("Recorded %s (%s): %.2f, balance %.2f\n", tx.Name, tx.ID, tx.Amount, snap.Balance)
}

func runEdit(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "transaction id to edit")
	txType, amount, desc, category, goal, date := transactionFlags(fs)
	fs.Parse(os.Args[2:])

	if *id == "" || *amount == "" || *desc == "" {
		log.Fatal().Msg("Usage: cli edit -id ID -amount AMOUNT -desc TEXT [options]")
	}

	ctx := logger.WithContext(context.Background(), log)
	st, snap := mustLoad(ctx, cfg, log)

	form := buildForm(*txType, *amount, *desc, *category, *goal, *date, log)
	form.Editing = true
	form.EditingID = *id

	engine := &ledger.Engine{FullRevert: cfg.FullRevert}
	tx := engine.Apply(snap, form.Intent(snap))

	mustSave(ctx, st, snap, log)

	fmt.Printf("Updated %s (%s): %.2f, balance %.2f\n", tx.Name, tx.ID, tx.Amount, snap.Balance)
}

func runList(cfg *config.Config, log zerolog.Logger) {
	ctx := logger.WithContext(context.Background(), log)
	_, snap := mustLoad(ctx, cfg, log)

	if len(snap.Transactions) == 0 {
		fmt.Println("No transactions yet.")
		return
	}

	for _, tx := range snap.Transactions {
		fmt.Printf("%s  %-12s %10.2f  %-15s %s\n",
			time.Unix(tx.Time, 0).Format("2006-01-02"),
			tx.Category.Name, tx.Amount, shortID(tx.ID), tx.Name)
	}
}

// shortID abbreviates generated uuids for display. Ids from hand-edited or
// foreign blobs can be arbitrarily short; those print as-is.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runInspect(cfg *config.Config, log zerolog.Logger) {
	ctx := logger.WithContext(context.Background(), log)
	_, snap := mustLoad(ctx, cfg, log)

	fmt.Println("\n=== Snapshot ===")
	fmt.Printf("Name:          %s\n", snap.Name)
	fmt.Printf("Balance:       %.2f\n", snap.Balance)
	fmt.Printf("Income:        %.2f\n", snap.Income)
	fmt.Printf("Expense:       %.2f\n", snap.Expense)
	fmt.Printf("Savings:       %.2f\n", snap.Savings)
	fmt.Printf("Tax rate:      %.2f%%\n", snap.TaxRate)
	fmt.Printf("Taxable:       %.2f\n", snap.TaxableAmount)
	fmt.Printf("Tax collected: %.2f\n", snap.TaxCollected)
	fmt.Printf("Transactions:  %d\n", len(snap.Transactions))

	if len(snap.Categories) > 0 {
		fmt.Println("\nCategories:")
		for _, c := range snap.Categories {
			fmt.Printf("  %-15s used %8.2f of %8.2f\n", c.Name, c.Used, c.Limit)
		}
	}
	if len(snap.Goals) > 0 {
		fmt.Println("\nGoals:")
		for _, g := range snap.Goals {
			fmt.Printf("  %-15s %8.2f of %8.2f\n", g.Name, g.Collected, g.Total)
		}
	}
}

func runInsight(cfg *config.Config, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	_, snap := mustLoad(ctx, cfg, log)
	svc := mustAdvisor(ctx, cfg, log)

	fmt.Println(svc.GenerateInsight(ctx, snap))
}

func runChat(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	message := fs.String("message", "", "message to send")
	fs.Parse(os.Args[2:])

	if *message == "" {
		log.Fatal().Msg("Usage: cli chat -message TEXT")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc := mustAdvisor(ctx, cfg, log)

	// Seed the conversation with the snapshot so the follow-up has context.
	_, snap := mustLoad(ctx, cfg, log)
	svc.GenerateInsight(ctx, snap)

	fmt.Println(svc.Chat(ctx, *message))
}

func runLimits(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("limits", flag.ExitOnError)
	age := fs.Int("age", 0, "your age")
	gender := fs.String("gender", "", "your gender")
	income := fs.Float64("income", 0, "monthly income")
	savings := fs.Float64("savings", 0, "planned monthly saving")
	apply := fs.Bool("apply", false, "adopt the suggested limits into the snapshot")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, snap := mustLoad(ctx, cfg, log)
	svc := mustAdvisor(ctx, cfg, log)

	suggested := svc.GenerateLimits(ctx, snap.Categories, advisor.Profile{
		Age:           *age,
		Gender:        *gender,
		MonthlyIncome: *income,
		MonthlySaving: *savings,
		TaxRate:       snap.TaxRate,
	})
	if len(suggested) == 0 {
		fmt.Println("No suggestion from the advisor.")
		return
	}

	for _, c := range suggested {
		fmt.Printf("  %-15s %8.2f\n", c.Name, c.Limit)
	}

	if *apply {
		snap.Categories = suggested
		mustSave(ctx, st, snap, log)
		fmt.Println("Limits applied.")
	}
}

func runExport(cfg *config.Config, log zerolog.Logger) {
	if cfg.BQProject == "" {
		log.Fatal().Msg("BQ_PROJECT is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	_, snap := mustLoad(ctx, cfg, log)

	exporter := analytics.NewExporter(cfg.BQProject, cfg.BQDataset)
	if err := exporter.ExportSnapshot(ctx, snap); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported %d transactions to %s.%s\n", len(snap.Transactions), cfg.BQProject, cfg.BQDataset)
}
