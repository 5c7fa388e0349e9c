package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/shopspring/decimal"

	"github.com/luca-patrignani/powledger/archive"
	"github.com/luca-patrignani/powledger/config"
	"github.com/luca-patrignani/powledger/events"
	"github.com/luca-patrignani/powledger/ledger"
	"github.com/luca-patrignani/powledger/signer"
	"github.com/luca-patrignani/powledger/wallet"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [config.json]\n", os.Args[0])
		os.Exit(1)
	}
	configPath := ""
	if len(os.Args) == 2 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("POW", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("ledger", pterm.FgDarkGray.ToStyle()),
	).Render()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

// newLogger returns a slog logger printing through pterm at the given level.
func newLogger(level string) *slog.Logger {
	handler := pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(parseLogLevel(level)))
	return slog.New(handler)
}

func parseLogLevel(level string) pterm.LogLevel {
	switch strings.ToLower(level) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	s, err := signer.ByName(cfg.Signer)
	if err != nil {
		return err
	}
	genesisAmount, err := decimal.NewFromString(cfg.GenesisAmount)
	if err != nil {
		return fmt.Errorf("genesis amount: %w", err)
	}

	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithGenesis(genesisAmount, cfg.GenesisPayee),
		ledger.WithProofOfWork(cfg.Difficulty, cfg.MaxAttempts),
		ledger.WithPayerBinding(),
	}

	var store *archive.Store
	if cfg.ArchiveDriver != "" {
		store, err = archive.Open(cfg.ArchiveDriver, cfg.ArchiveDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, ledger.WithObserver(store))
		logger.Info("archiving blocks", "driver", cfg.ArchiveDriver)
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer publisher.Close()
		opts = append(opts, ledger.WithObserver(events.NewNotifier(publisher, cfg.KafkaTopic, 5*time.Second)))
		logger.Info("publishing blocks", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	l := ledger.New(s, opts...)

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Generating %s keys for alice, bob and carol ...", s.Name()))
	accounts, err := newAccounts(s, "alice", "bob", "carol")
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	outcomes := demoTransfers(l, accounts)
	printOutcomes(outcomes)

	seed := l.Tail().Nonce()
	spinner, _ = pterm.DefaultSpinner.Start(fmt.Sprintf("Searching proof of work for seed %d ...", seed))
	solution, err := l.ProofOfWorkContext(ctx, seed)
	switch {
	case errors.Is(err, ledger.ErrProofOfWorkExhausted):
		spinner.Warning(err.Error())
	case err != nil:
		spinner.Fail()
		return err
	default:
		spinner.Success(fmt.Sprintf("Proof of work for seed %d: %d", seed, solution))
	}

	if err := l.Validate(); err != nil {
		pterm.Error.Printfln("Chain invalid: %v", err)
	} else {
		pterm.Success.Printfln("Chain of %d blocks is valid", l.Len())
	}

	if err := printChain(l, accountNames(accounts)); err != nil {
		return err
	}

	if store != nil {
		blocks := l.Blocks()
		records, err := store.Records(ctx, blocks[0].Hash())
		if err != nil {
			return err
		}
		if err := archive.VerifyLinks(records); err != nil {
			pterm.Error.Printfln("Archive invalid: %v", err)
		} else if err := archive.Compare(records, blocks); err != nil {
			pterm.Error.Printfln("Archive out of sync: %v", err)
		} else {
			pterm.Info.Printfln("Archive holds %d linked blocks", len(records))
		}
	}
	return nil
}

// namedAccount pairs a demo account with its display name.
type namedAccount struct {
	Name    string
	Account *wallet.Account
}

func newAccounts(s signer.Signer, names ...string) ([]namedAccount, error) {
	accounts := make([]namedAccount, 0, len(names))
	for _, name := range names {
		a, err := wallet.New(s)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", name, err)
		}
		accounts = append(accounts, namedAccount{Name: name, Account: a})
	}
	return accounts, nil
}

// outcome is the result of one demo transfer.
type outcome struct {
	Description string
	Err         error
}

// demoTransfers runs the fixed sequence of transfers between the first three
// accounts, including one that replays a signature made by another account.
func demoTransfers(l *ledger.Ledger, accounts []namedAccount) []outcome {
	a, b, c := accounts[0], accounts[1], accounts[2]
	var outcomes []outcome

	transfer := func(from, to namedAccount, amount int64) {
		_, err := from.Account.Transfer(l, decimal.NewFromInt(amount), to.Account.PublicKey())
		outcomes = append(outcomes, outcome{
			Description: fmt.Sprintf("%s sends %d to %s", from.Name, amount, to.Name),
			Err:         err,
		})
	}

	transfer(a, b, 50)

	stolen := ledger.NewTransaction(decimal.NewFromInt(23), b.Account.PublicKey(), c.Account.PublicKey())
	sig, err := a.Account.Sign(stolen)
	if err == nil {
		_, err = l.Append(stolen, b.Account.PublicKey(), sig)
	}
	outcomes = append(outcomes, outcome{
		Description: fmt.Sprintf("%s sends 23 to %s with %s's signature", b.Name, c.Name, a.Name),
		Err:         err,
	})

	transfer(b, c, 23)
	transfer(c, a, 5)
	return outcomes
}

func accountNames(accounts []namedAccount) map[string]string {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.Account.PublicKey()] = a.Name
	}
	return names
}
