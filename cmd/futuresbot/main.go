package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/futuresbot/internal/controlplane/server"
	"github.com/betbot/futuresbot/internal/trading"
	"github.com/betbot/futuresbot/pkg/config"
	"github.com/betbot/futuresbot/pkg/logger"
	"github.com/betbot/futuresbot/pkg/ratelimit"
	"github.com/betbot/futuresbot/pkg/sdk/binance"
	"github.com/betbot/futuresbot/pkg/secretstore"
)

const usage = `Binance Futures Trading Bot CLI

usage: futuresbot [-config file] <command> [flags]

commands:
  order     place a new order on Binance Futures Testnet
  account   show wallet balances
  creds     store API credentials in the secret store
  serve     run the HTTP front end
`

func main() {
	// Best-effort; real environment variables still apply when .env is missing.
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("futuresbot", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", os.Getenv("FUTURESBOT_CONFIG"), "config file (.yaml, .yml or .json)")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "order":
		return runOrder(*configPath, rest, stdout, stderr)
	case "account":
		return runAccount(*configPath, rest, stdout, stderr)
	case "creds":
		return runCreds(*configPath, rest, stdout, stderr)
	case "serve":
		return runServe(*configPath, rest, stdout, stderr)
	case "help", "-h", "--help":
		global.Usage()
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}
}

// optionalFloat is a flag.Value that records whether it was set.
type optionalFloat struct {
	v   float64
	set bool
}

func (o *optionalFloat) String() string {
	if o == nil || !o.set {
		return ""
	}
	return strconv.FormatFloat(o.v, 'f', -1, 64)
}

func (o *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.v, o.set = v, true
	return nil
}

func (o *optionalFloat) ptr() *float64 {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}

// orderArgs holds the parsed flags of the order command.
type orderArgs struct {
	intent trading.Intent
}

func parseOrderArgs(args []string, stderr io.Writer) (*orderArgs, error) {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		symbol = fs.String("symbol", "", "trading symbol (e.g., BTCUSDT)")
		side   = fs.String("side", "", "order side: BUY or SELL")
		typ    = fs.String("type", "", "order type: MARKET or LIMIT")
		qty    = fs.Float64("qty", 0, "quantity to trade")
		tif    = fs.String("tif", "", "time in force for LIMIT orders: GTC, IOC, FOK or GTX")
		price  optionalFloat
	)
	fs.Var(&price, "price", "price for LIMIT orders")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var missing []string
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	for _, name := range []string{"symbol", "side", "type", "qty"} {
		if !seen[name] {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required flags: %v", missing)
	}

	return &orderArgs{intent: trading.Intent{
		Symbol:      *symbol,
		Side:        *side,
		OrderType:   *typ,
		Quantity:    *qty,
		Price:       price.ptr(),
		TimeInForce: *tif,
	}}, nil
}

func runOrder(configPath string, args []string, stdout, stderr io.Writer) int {
	oa, err := parseOrderArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}

	a, err := newApp(configPath, stderr)
	if err != nil {
		renderError(stderr, err)
		return 1
	}

	resp, err := a.orders.PlaceTrade(context.Background(), oa.intent)
	if err != nil {
		renderFailure(stdout, err)
		return 1
	}
	renderSummary(stdout, trading.Summarize(resp))
	return 0
}

func runAccount(configPath string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("account", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a, err := newApp(configPath, stderr)
	if err != nil {
		renderError(stderr, err)
		return 1
	}

	resp, err := a.orders.AccountInfo(context.Background())
	if err != nil {
		renderError(stdout, errors.Wrap(err, "fetch account"))
		return 1
	}
	renderAccount(stdout, trading.SummarizeAccount(resp))
	return 0
}

func runCreds(configPath string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("creds", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		key    = fs.String("key", "", "API key")
		secret = fs.String("secret", "", "API secret")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		renderError(stderr, err)
		return 1
	}
	if cfg.SecretStore.Path == "" {
		renderError(stderr, errors.Errorf("secret store path is required: set %s or secret_store.path", config.EnvSecretPath))
		return 1
	}
	store, err := openStore(cfg, false)
	if err != nil {
		renderError(stderr, err)
		return 1
	}
	defer store.Close()

	if err := store.SaveCredentials(*key, *secret); err != nil {
		renderError(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "credentials saved to %s\n", cfg.SecretStore.Path)
	return 0
}

func runServe(configPath string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	listen := fs.String("listen", "", "HTTP listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a, err := newApp(configPath, stderr)
	if err != nil {
		renderError(stderr, err)
		return 1
	}

	addr := a.cfg.Server.Listen
	if *listen != "" {
		addr = *listen
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           server.New(a.orders, a.log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.log.Infof("listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Errorf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	fmt.Fprintln(stdout, "server stopped")
	return 0
}

// app is everything a command needs to talk to the exchange.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	orders *trading.Orchestrator
}

func newApp(configPath string, console io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if !cfg.HasCredentials() && storeExists(cfg.SecretStore.Path) {
		store, err := openStore(cfg, true)
		if err != nil {
			return nil, err
		}
		err = cfg.FillCredentials(store)
		_ = store.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    console,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}

	opts := []binance.Option{
		binance.WithBaseURL(cfg.BaseURL),
		binance.WithTimeout(cfg.Timeout),
		binance.WithLogger(log),
	}
	if cfg.RateLimit {
		opts = append(opts, binance.WithLimiter(ratelimit.NewManager()))
	}
	client := binance.NewClient(binance.Credentials{APIKey: cfg.APIKey, APISecret: cfg.APISecret}, opts...)

	return &app{
		cfg:    cfg,
		log:    log,
		orders: trading.NewOrchestrator(client, log),
	}, nil
}

func openStore(cfg *config.Config, readOnly bool) (*secretstore.Store, error) {
	key, err := secretstore.ParseKey(cfg.SecretStore.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.SecretStore.Path,
		EncryptionKey: key,
		ReadOnly:      readOnly,
	})
}

func storeExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
