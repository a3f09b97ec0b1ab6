package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"arena-bot/internal/arena"
	"arena-bot/internal/bot"
	"arena-bot/internal/config"
	"arena-bot/internal/logging"
	"arena-bot/internal/status"
	"arena-bot/internal/store"
	"arena-bot/internal/wallet"
)

func main() {
	statsOnly := flag.Bool("stats", false, "print account stats from the accounts file and exit")
	flag.Parse()

	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	client := arena.NewClient(arena.Config{
		BaseURL:       cfg.Bot.BaseURL,
		Origin:        cfg.Bot.SignInURI,
		Timeout:       cfg.Bot.HTTPTimeout,
		RetryMax:      cfg.Bot.RetryMax,
		RetryBackoff:  cfg.Bot.RetryBackoff,
		SessionTypeID: cfg.Bot.SessionTypeID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *statsOnly {
		if err := runStatsReport(ctx, client, cfg.Bot.AccountsFile); err != nil {
			log.Fatal().Err(err).Msg("stats report failed")
		}
		return
	}

	auth := wallet.NewAuthenticator(client, wallet.SignInParams{
		Domain:    cfg.Bot.SignInDomain,
		URI:       cfg.Bot.SignInURI,
		Statement: cfg.Bot.SignInStatement,
		ChainID:   cfg.Bot.SignInChainID,
	}, time.Now)

	accounts := authenticateAll(ctx, auth, cfg.Bot.PrivateKeys)
	if len(accounts) == 0 {
		log.Fatal().Msg("no account could be authenticated; set PRIVATE_KEYS")
	}

	tracker := status.NewTracker(time.Now())
	observers := []bot.Observer{tracker}

	var history status.History
	if cfg.Store.PostgresDSN != "" {
		st, err := store.New(cfg.Store.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		history = st
		observers = append(observers, &battleRecorder{store: st, keep: cfg.Store.HistoryKeep})
		log.Info().Msg("battle history persistence enabled")
	}

	if cfg.Status.Addr != "" {
		srv := status.NewServer(cfg.Status.Addr, tracker, history)
		go func() {
			log.Info().Str("addr", cfg.Status.Addr).Msg("status server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("status server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	clock := bot.SystemClock()
	sleeper := bot.TimerSleeper()
	observer := multiObserver(observers)
	fees, err := bot.NewFeePicker(cfg.Bot.EntryFees, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.Fatal().Err(err).Msg("fee picker init failed")
	}

	orch := bot.NewOrchestrator(client, clock, sleeper, cfg.Bot.PollInterval, cfg.Bot.BattleTimeout, cfg.Bot.PostBattleDelay)
	agentRunner := bot.NewAgentRunner(client, orch, fees, clock, sleeper, observer, cfg.Bot.PollInterval)
	accountRunner := bot.NewAccountRunner(client, auth, agentRunner, observer)
	scheduler := bot.NewScheduler(accounts, accountRunner, clock, sleeper, observer, cfg.Bot.CycleCooldown)

	log.Info().Int("accounts", len(accounts)).Msg("scheduler starting")
	if err := scheduler.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("shutdown requested, exiting")
			return
		}
		log.Fatal().Err(err).Msg("scheduler stopped")
	}
}

func authenticateAll(ctx context.Context, auth *wallet.Authenticator, privateKeys []string) []*bot.Account {
	var accounts []*bot.Account
	for _, key := range privateKeys {
		id, err := wallet.ParseIdentity(key)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unparsable private key")
			continue
		}
		cred, err := auth.Reauthenticate(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("wallet", id.Address).Msg("failed to authenticate wallet, dropping it from the run")
			continue
		}
		log.Info().Str("wallet", id.Address).Int64("user_id", cred.UserID).Msg("authenticated wallet")
		accounts = append(accounts, &bot.Account{Identity: id, Credential: cred})
	}
	return accounts
}

// runStatsReport is the legacy one-shot mode: read pre-authenticated
// accounts from a JSON file and print their fractal stats.
func runStatsReport(ctx context.Context, client *arena.Client, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read accounts file: %w", err)
	}
	var entries []struct {
		UserID        int64  `json:"userId"`
		WalletAddress string `json:"walletAddress"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse accounts file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no accounts found in %s", path)
	}
	for _, entry := range entries {
		stats, err := client.FetchUserStats(ctx, entry.UserID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", entry.UserID).Msg("stats fetch failed")
			continue
		}
		log.Info().
			Str("wallet", entry.WalletAddress).
			Int64("user_id", entry.UserID).
			Float64("total_fractals", stats.UserFractals).
			Float64("daily_fractals", stats.DailyFractals).
			Int("current_rank", stats.FractalRank.CurrentRank).
			Msg("account stats")
	}
	return nil
}

// battleRecorder bridges observer callbacks into the history store.
type battleRecorder struct {
	bot.NopObserver
	store *store.Store
	keep  int
}

func (r *battleRecorder) OnBattle(res bot.BattleResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.store.RecordBattle(ctx, store.BattleRecord{
		Wallet:        res.Wallet,
		UserID:        res.UserID,
		AgentID:       res.AgentID,
		AgentName:     res.AgentName,
		MatchmakingID: res.MatchmakingID,
		EntryFee:      res.EntryFee,
		Outcome:       res.Outcome,
		Rank:          res.Rank,
		Score:         res.Score,
		Reward:        res.Reward,
		StartedAt:     res.StartedAt,
		FinishedAt:    res.FinishedAt,
	}); err != nil {
		log.Error().Err(err).Msg("failed to persist battle record")
		return
	}
	if err := r.store.PruneBattles(ctx, r.keep); err != nil {
		log.Error().Err(err).Msg("history prune failed")
	}
}

// multiObserver fans callbacks out to every sink.
type fanoutObserver []bot.Observer

func multiObserver(obs []bot.Observer) bot.Observer {
	if len(obs) == 1 {
		return obs[0]
	}
	return fanoutObserver(obs)
}

func (f fanoutObserver) OnCycle(n int) {
	for _, o := range f {
		o.OnCycle(n)
	}
}

func (f fanoutObserver) OnUserStats(wallet string, userID int64, stats arena.UserStats) {
	for _, o := range f {
		o.OnUserStats(wallet, userID, stats)
	}
}

func (f fanoutObserver) OnBattle(res bot.BattleResult) {
	for _, o := range f {
		o.OnBattle(res)
	}
}

func (f fanoutObserver) OnPause(until time.Time) {
	for _, o := range f {
		o.OnPause(until)
	}
}

func (f fanoutObserver) OnResume() {
	for _, o := range f {
		o.OnResume()
	}
}
