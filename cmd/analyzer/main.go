package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reddit-stocks-analyzer/internal/analysis"
	"reddit-stocks-analyzer/internal/db"
	"reddit-stocks-analyzer/internal/logger"
	"reddit-stocks-analyzer/internal/marketdata"
	"reddit-stocks-analyzer/internal/pace"
	"reddit-stocks-analyzer/internal/reddit"
	"reddit-stocks-analyzer/internal/report"
	"reddit-stocks-analyzer/internal/store"
	"reddit-stocks-analyzer/internal/ticker"
	"reddit-stocks-analyzer/internal/types"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	posts := flag.Int("posts", 0, "number of posts to fetch (0 = config default)")
	titleOnly := flag.Bool("title-only", true, "extract tickers from post titles only")
	sortBy := flag.String("sort", "", "post sort: hot, new, top, rising")
	timeFilter := flag.String("time", "", "time filter for top sort: day, week, month, year, all")
	noCharts := flag.Bool("no-charts", false, "skip chart rendering")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Shutdown(context.Background())

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	opts := types.FetchOptions{
		Limit:      cfg.Fetch.Limit,
		Sort:       cfg.Fetch.Sort,
		TimeFilter: cfg.Fetch.TimeFilter,
		TitleOnly:  *cfg.Fetch.TitleOnly,
	}
	if *posts > 0 {
		opts.Limit = *posts
	}
	if *sortBy != "" {
		opts.Sort = *sortBy
	}
	if *timeFilter != "" {
		opts.TimeFilter = *timeFilter
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "title-only" {
			opts.TitleOnly = *titleOnly
		}
	})

	if err := run(ctx, cfg, opts, !*noCharts); err != nil {
		logger.ErrorWithErr(ctx, "Analysis run failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *store.Config, opts types.FetchOptions, charts bool) error {
	cache := marketdata.NewCache(cfg.CacheDir, 0)
	md := marketdata.NewYahooClient(marketdata.WithCache(cache))

	params := reddit.Params{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		Subreddit:    cfg.Reddit.Subreddit,
	}
	extractor := ticker.NewExtractor(md, pace.NewInterval(cfg.ValidationDelay()))
	source := reddit.NewSource(reddit.NewClient(params), reddit.NewScraper(params), extractor)
	analyzer := analysis.New(md, pace.NewInterval(cfg.HistoryDelay()), cfg.HorizonTable())

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	defer database.Close()

	logger.Info(ctx, "Starting profitability analysis", "subreddit", cfg.Reddit.Subreddit)

	op := logger.StartOperation(ctx, "fetch_mentions", "limit", opts.Limit, "sort", opts.Sort)
	mentions, err := source.FetchMentions(op.GetContext(), opts)
	if err != nil {
		op.EndWithError(err)
		return err
	}
	op.End("mentions", len(mentions))

	if len(mentions) == 0 {
		logger.Info(ctx, "No stock mentions found")
		return nil
	}

	op = logger.StartOperation(ctx, "calculate_performance", "mentions", len(mentions))
	outcomes := analyzer.CalculatePerformance(op.GetContext(), mentions)
	perfs := analysis.Performances(outcomes)
	op.End("records", len(perfs), "skipped", len(outcomes)-len(perfs))

	for _, o := range outcomes {
		if o.Skipped() {
			logger.Info(ctx, "Pair skipped", "ticker", o.Ticker,
				"day", o.Day.Format("2006-01-02"), "reason", o.Skip)
		}
	}

	if err := database.SaveMentions(ctx, mentions); err != nil {
		return fmt.Errorf("save mentions: %w", err)
	}
	logger.Info(ctx, "Saved mentions", "count", len(mentions))

	saved, err := database.SavePerformances(ctx, perfs)
	if err != nil {
		return fmt.Errorf("save performances: %w", err)
	}
	logger.Info(ctx, "Saved performance records", "count", saved)

	diag, err := database.Diagnose(ctx)
	if err != nil {
		return fmt.Errorf("diagnose database: %w", err)
	}
	printDiagnostics(diag)

	rows, err := database.PerformanceRows(ctx)
	if err != nil {
		return fmt.Errorf("read performance rows: %w", err)
	}

	stats := report.Summarize(rows, cfg.HorizonTable())
	report.Render(os.Stdout, len(rows), stats)

	if charts {
		written, err := report.WriteCharts(cfg.Report.ChartDir, rows, cfg.HorizonTable())
		if err != nil {
			logger.Warn(ctx, "Chart rendering failed", "error", err)
		} else {
			for _, p := range written {
				logger.Info(ctx, "Chart written", "path", p)
			}
		}
	}

	return nil
}

func printDiagnostics(diag *db.Diagnostics) {
	fmt.Println("============================================================")
	fmt.Println("DATABASE DIAGNOSTICS")
	fmt.Println("============================================================")
	fmt.Printf("Stock mentions: %d\n", diag.MentionCount)
	if len(diag.TopTickers) > 0 {
		fmt.Println("Top mentioned tickers:")
		for _, tc := range diag.TopTickers {
			fmt.Printf("  %-6s %d mentions\n", tc.Ticker, tc.Count)
		}
	}
	fmt.Printf("Performance records: %d (%d with return data)\n", diag.PerformanceCount, diag.WithReturns)
	fmt.Printf("Populated horizons: 1d=%d 3d=%d 1w=%d 2w=%d 1m=%d\n",
		diag.HorizonCounts["1d"], diag.HorizonCounts["3d"], diag.HorizonCounts["1w"],
		diag.HorizonCounts["2w"], diag.HorizonCounts["1m"])
	fmt.Println("============================================================")
}
