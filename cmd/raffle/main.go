package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"starkraffle/internal/blockchain"
	"starkraffle/internal/config"
	"starkraffle/internal/logger"
	"starkraffle/internal/raffle"
	"starkraffle/internal/service"
	"starkraffle/internal/storage"
)

const usage = `usage: raffle <command> [flags]

commands:
  list                         list every raffle, active first
  show    --id N [--viewer A]  show one raffle and what viewer may do
  balance --address A          token balance of an address
  verify                       check node and contracts match the configuration
  calls   create|buy|draw|claim [flags]
                               print the call batch for an external signer
  create  --title --price --max-tickets (--end | --duration)
  buy     --id N --viewer A
  draw    --id N --viewer A
  claim   --id N --viewer A    submit through an external signer and wait
  history [--limit N] [--pending] [--id N] [--submission N]
                               journaled submissions
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-waitForInterrupt():
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}

type app struct {
	cfg     *config.Config
	client  *blockchain.Client
	service *service.Service
	journal *storage.SqliteStorage
}

func (a *app) close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger.Warn("closing journal", zap.Error(err))
		}
	}
	logger.Sync()
}

// setup wires the service from the environment. The journal and executor
// are only opened for commands that submit or list submissions.
func setup(flags *pflag.FlagSet, in io.Reader, prompt io.Writer, submits bool) (*app, error) {
	envFiles, err := flags.GetStringSlice(EnvFileKey)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.Logger())

	client := blockchain.NewClient(cfg.Network.RPCURL,
		blockchain.WithTimeout(cfg.Network.Timeout),
		blockchain.WithBlockID(cfg.Network.BlockID),
	)
	contracts := cfg.RaffleContracts()
	reader := raffle.NewReader(client, contracts, raffle.WithConcurrency(cfg.FetchConcurrency))

	a := &app{cfg: cfg, client: client}
	options := []service.Option{
		service.WithChain(client, cfg.Network.ChainID),
		service.WithExplorer(cfg.Network.ExplorerTxURL),
		service.WithShareURL(cfg.ShareURL),
	}
	if submits {
		journal, err := storage.NewSqliteStorage(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		a.journal = journal
		options = append(options,
			service.WithStorage(journal),
			service.WithExecutor(service.NewManualExecutor(in, prompt, client, cfg.Network.PollInterval, cfg.Network.ExplorerTxURL)),
		)
	}

	a.service = service.New(reader, contracts, options...)
	logger.Debug("raffle: configured",
		zap.String("rpc url", cfg.Network.RPCURL),
		zap.String("raffle contract", contracts.Raffle),
		zap.String("token", contracts.Token.Address),
	)
	return a, nil
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "list":
		return runList(ctx, rest, out)
	case "show":
		return runShow(ctx, rest, out)
	case "balance":
		return runBalance(ctx, rest, out)
	case "verify":
		return runVerify(ctx, rest, out)
	case "calls":
		return runCalls(ctx, rest, out)
	case "create", "buy", "draw", "claim":
		return runSubmit(ctx, command, rest, in, out)
	case "history":
		return runHistory(rest, out)
	case "help", "-h", "--help":
		_, err := fmt.Fprint(out, usage)
		return err
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func runList(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("list")
	if err := flags.Parse(args); err != nil {
		return err
	}
	a, err := setup(flags, nil, nil, false)
	if err != nil {
		return err
	}
	defer a.close()

	views, err := a.service.List(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, views)
}

func runShow(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("show")
	addRaffleFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	raffleArgs, err := parseRaffleFlags(flags, false)
	if err != nil {
		return err
	}
	a, err := setup(flags, nil, nil, false)
	if err != nil {
		return err
	}
	defer a.close()

	detail, err := a.service.Detail(ctx, raffleArgs.ID, raffleArgs.Viewer)
	if err != nil {
		return err
	}
	return writeJSON(out, detail)
}

func runBalance(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("balance")
	flags.String(AddressKey, "", "Address to read the balance of")
	if err := flags.Parse(args); err != nil {
		return err
	}
	address, err := flags.GetString(AddressKey)
	if err != nil {
		return err
	}
	if address == "" {
		return fmt.Errorf("%w: --%s", errMissingFlag, AddressKey)
	}
	a, err := setup(flags, nil, nil, false)
	if err != nil {
		return err
	}
	defer a.close()

	balance, err := a.service.Balance(ctx, address)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]string{"address": address, "balance": balance})
}

func runVerify(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("verify")
	if err := flags.Parse(args); err != nil {
		return err
	}
	a, err := setup(flags, nil, nil, false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.Verify(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "ok")
	return err
}

// runCalls prints a batch without submitting it.
func runCalls(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: calls needs an action", errUsage)
	}

	action, rest := args[0], args[1:]
	flags := newFlagSet("calls " + action)
	switch action {
	case "create":
		addCreateFlags(flags)
	case "buy", "draw", "claim":
		addRaffleFlags(flags)
	default:
		return fmt.Errorf("%w: unknown action %q", errUsage, action)
	}
	if err := flags.Parse(rest); err != nil {
		return err
	}

	a, err := setup(flags, nil, nil, false)
	if err != nil {
		return err
	}
	defer a.close()

	var calls []blockchain.Call
	if action == "create" {
		input, err := parseCreateFlags(flags, time.Now())
		if err != nil {
			return err
		}
		calls, err = a.service.PrepareCreate(input)
		if err != nil {
			return err
		}
		return writeJSON(out, calls)
	}

	raffleArgs, err := parseRaffleFlags(flags, true)
	if err != nil {
		return err
	}
	switch action {
	case "buy":
		calls, err = a.service.PrepareBuyTicket(ctx, raffleArgs.ID, raffleArgs.Viewer)
	case "draw":
		calls, err = a.service.PrepareDrawWinner(ctx, raffleArgs.ID, raffleArgs.Viewer)
	case "claim":
		calls, err = a.service.PrepareClaimPrize(ctx, raffleArgs.ID, raffleArgs.Viewer)
	}
	if err != nil {
		return err
	}
	return writeJSON(out, calls)
}

func runSubmit(ctx context.Context, action string, args []string, in io.Reader, out io.Writer) error {
	flags := newFlagSet(action)
	if action == "create" {
		addCreateFlags(flags)
	} else {
		addRaffleFlags(flags)
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	a, err := setup(flags, in, os.Stderr, true)
	if err != nil {
		return err
	}
	defer a.close()

	var receipt *service.Receipt
	if action == "create" {
		input, err := parseCreateFlags(flags, time.Now())
		if err != nil {
			return err
		}
		receipt, err = a.service.CreateRaffle(ctx, input)
		if err != nil {
			return err
		}
		return writeJSON(out, receipt)
	}

	raffleArgs, err := parseRaffleFlags(flags, true)
	if err != nil {
		return err
	}
	switch action {
	case "buy":
		receipt, err = a.service.BuyTicket(ctx, raffleArgs.ID, raffleArgs.Viewer)
	case "draw":
		receipt, err = a.service.DrawWinner(ctx, raffleArgs.ID, raffleArgs.Viewer)
	case "claim":
		receipt, err = a.service.ClaimPrize(ctx, raffleArgs.ID, raffleArgs.Viewer)
	}
	if err != nil {
		return err
	}
	return writeJSON(out, receipt)
}

func runHistory(args []string, out io.Writer) error {
	flags := newFlagSet("history")
	addHistoryFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	limit, err := flags.GetInt(LimitKey)
	if err != nil {
		return err
	}
	pending, err := flags.GetBool(PendingKey)
	if err != nil {
		return err
	}
	raffleID, err := flags.GetUint64(IDKey)
	if err != nil {
		return err
	}
	submissionID, err := flags.GetInt64(SubmissionKey)
	if err != nil {
		return err
	}

	a, err := setup(flags, nil, nil, true)
	if err != nil {
		return err
	}
	defer a.close()

	if flags.Changed(SubmissionKey) {
		submission, err := a.service.Submission(submissionID)
		if err != nil {
			return err
		}
		return writeJSON(out, submission)
	}

	var submissions []*storage.Submission
	switch {
	case pending:
		submissions, err = a.service.Pending()
	case flags.Changed(IDKey):
		submissions, err = a.service.HistoryByRaffle(raffleID)
	default:
		submissions, err = a.service.History(limit)
	}
	if err != nil {
		return err
	}
	if submissions == nil {
		submissions = []*storage.Submission{}
	}
	return writeJSON(out, submissions)
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
