package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"coinlens/internal/config"
	"coinlens/internal/provider"
	"coinlens/internal/query"
	"coinlens/internal/render"
	"coinlens/internal/report"
	"coinlens/internal/summarize"
	"coinlens/pkg/model"
)

var (
	cfgFile     string
	queryText   string
	coinName    string
	analysis    string
	days        int
	fromDate    string
	toDate      string
	format      string
	outPath     string
	workers     int
	doSummarize bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coinlens",
		Short: "Crypto indicator reports over Binance daily bars",
		Long: `Coinlens fetches daily OHLCV bars from Binance and evaluates one of
four analysis profiles over them:

  technical    - trend, momentum, volatility and volume indicators
  fundamental  - valuation and liquidity metrics
  quantitative - the full risk/valuation battery
  peer         - fixed comparison subset across all configured assets

Examples:
  coinlens --query "technical analysis for BTC last 6 months"
  coinlens --coin ETH --analysis quantitative --days 365
  coinlens --coin BTC --analysis peer --format csv --out peers.csv`,
		RunE: run,
	}

	// Flags
	rootCmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.Flags().StringVar(&queryText, "query", "", "free-text query (e.g. 'peer analysis on BTC last 6 months')")
	rootCmd.Flags().StringVar(&coinName, "coin", "", "coin name (e.g. BTC)")
	rootCmd.Flags().StringVar(&analysis, "analysis", "technical", "analysis: technical, fundamental, quantitative, peer")
	rootCmd.Flags().IntVar(&days, "days", query.DefaultDays, "lookback window in days")
	rootCmd.Flags().StringVar(&fromDate, "from", "", "range start (YYYY-MM-DD, overrides --days with --to)")
	rootCmd.Flags().StringVar(&toDate, "to", "", "range end (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&format, "format", "table", "output format: table, csv, json")
	rootCmd.Flags().StringVar(&outPath, "out", "", "write output to file instead of stdout")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers for peer analysis (default from config)")
	rootCmd.Flags().BoolVar(&doSummarize, "summarize", false, "append an LLM summary of the report")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "show detailed output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if workers > 0 {
		cfg.Peer.Workers = workers
	}

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	coin, ok := cfg.FindCoin(req.Coin)
	if !ok {
		return fmt.Errorf("unknown coin %q (supported: %s)", req.Coin, strings.Join(cfg.CoinNames(), ", "))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted.")
		cancel()
	}()

	prov := provider.NewCachingProvider(
		provider.NewBinanceProvider(cfg.Binance.BaseURL, cfg.Binance.RateLimit, cfg.Binance.Timeout),
	)
	asm := report.NewAssembler(cfg.Indicators, cfg.Assumptions.Indicator())
	start, end := req.DateRange(time.Now().UTC())

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if req.Analysis == report.Peer {
		return runPeer(ctx, cfg, prov, asm, req, coin, start, end, out)
	}
	return runSingle(ctx, cfg, prov, asm, req, coin, start, end, out)
}

// buildRequest resolves the run parameters from either the free-text
// query or the structured flags.
func buildRequest(cfg *config.Config) (query.Request, error) {
	if queryText != "" {
		return query.Parse(queryText, cfg.CoinNames())
	}

	if coinName == "" {
		return query.Request{}, fmt.Errorf("either --query or --coin is required")
	}
	profile, err := report.ParseProfile(analysis)
	if err != nil {
		return query.Request{}, err
	}
	req := query.Request{Coin: coinName, Analysis: profile, Days: days}

	if fromDate != "" || toDate != "" {
		if fromDate == "" || toDate == "" {
			return query.Request{}, fmt.Errorf("--from and --to must be given together")
		}
		start, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return query.Request{}, fmt.Errorf("parsing --from: %w", err)
		}
		end, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return query.Request{}, fmt.Errorf("parsing --to: %w", err)
		}
		if end.Before(start) {
			return query.Request{}, fmt.Errorf("--to is before --from")
		}
		req.Start = start
		req.End = end
	}
	return req, nil
}

func runSingle(ctx context.Context, cfg *config.Config, prov provider.Provider, asm *report.Assembler, req query.Request, coin config.CoinConfig, start, end time.Time, out *os.File) error {
	if verbose {
		fmt.Fprintf(os.Stderr, "Fetching %s bars from %s to %s...\n",
			coin.Symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	series, err := prov.GetDailyBars(ctx, coin.Symbol, start, end)
	if err != nil {
		return fmt.Errorf("fetching bars for %s: %w", coin.Symbol, err)
	}

	rep, err := asm.Build(req.Analysis, series, coin.Supply)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		if err := render.WriteCSV(out, rep); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	case "table":
		fmt.Fprintf(out, "%s %s analysis (%d bars)\n\n", coin.Name, rep.Profile, series.Len())
		render.WriteTable(out, rep)
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}

	if doSummarize {
		summarizeReport(ctx, cfg, req, rep, nil)
	}
	return nil
}

func runPeer(ctx context.Context, cfg *config.Config, prov provider.Provider, asm *report.Assembler, req query.Request, target config.CoinConfig, start, end time.Time, out *os.File) error {
	symbols := peerSymbolOrder(cfg.Coins, target.Symbol)
	supplies := make(map[string]float64, len(cfg.Coins))
	for _, coin := range cfg.Coins {
		supplies[coin.Symbol] = coin.Supply
	}

	bar := progressbar.NewOptions(len(symbols),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionSetWriter(os.Stderr),
	)

	inputs := make(map[string]report.PeerInput, len(symbols))
	for _, sym := range symbols {
		series, err := prov.GetDailyBars(ctx, sym, start, end)
		if err != nil {
			return fmt.Errorf("fetching bars for %s: %w", sym, err)
		}
		inputs[sym] = report.PeerInput{Series: series, Supply: supplies[sym]}
		_ = bar.Add(1)
	}
	fmt.Fprintln(os.Stderr)

	rep, err := asm.BuildPeer(ctx, symbols, inputs, cfg.Peer.Workers)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		if err := render.WritePeerCSV(out, rep); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	case "table":
		fmt.Fprintf(out, "Peer comparison across %d assets\n\n", len(rep.Symbols))
		render.WritePeerTable(out, rep)
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}

	if doSummarize {
		summarizeReport(ctx, cfg, req, nil, rep)
	}
	return nil
}

// peerSymbolOrder fixes the peer column order: peers in configuration
// order first, the requested asset as the final column.
func peerSymbolOrder(coins []config.CoinConfig, target string) []string {
	out := make([]string, 0, len(coins))
	for _, coin := range coins {
		if coin.Symbol != target {
			out = append(out, coin.Symbol)
		}
	}
	return append(out, target)
}

// summarizeReport appends an LLM commentary after the report. A
// summarizer failure is reported on stderr and never fails the run.
func summarizeReport(ctx context.Context, cfg *config.Config, req query.Request, rep *model.Report, peer *model.PeerReport) {
	s := summarize.New(cfg.Groq.Key, cfg.Groq.Model, cfg.Groq.BaseURL, cfg.Groq.MaxTokens)
	if !s.IsAvailable() {
		fmt.Fprintln(os.Stderr, "Summary skipped: set GROQ_API_KEY to enable")
		return
	}

	var sb strings.Builder
	var err error
	if rep != nil {
		err = render.WriteCSV(&sb, rep)
	} else {
		err = render.WritePeerCSV(&sb, peer)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Summary skipped: %v\n", err)
		return
	}

	userQuery := queryText
	if userQuery == "" {
		userQuery = fmt.Sprintf("%s analysis for %s", req.Analysis, req.Coin)
	}

	text, err := s.Summarize(ctx, userQuery, sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Summary failed: %v\n", err)
		return
	}
	fmt.Printf("\n--- Summary ---\n%s\n", text)
}
