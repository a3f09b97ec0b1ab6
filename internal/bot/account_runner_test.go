package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"arena-bot/internal/arena"
	"arena-bot/internal/wallet"
)

func newTestAccountRunner(gw *fakeGateway, auth *fakeAuth, obs Observer) *AccountRunner {
	clock := newFakeClock(testEpoch)
	sleeper := &fakeSleeper{clock: clock}
	fees, _ := NewFeePicker([]float64{0.001}, rand.New(rand.NewSource(1)))
	orch := NewOrchestrator(gw, clock, sleeper, 15*time.Second, 10*time.Minute, 60*time.Second)
	agents := NewAgentRunner(gw, orch, fees, clock, sleeper, obs, 15*time.Second)
	return NewAccountRunner(gw, auth, agents, obs)
}

func TestAccountRunnerReauthenticatesOn401(t *testing.T) {
	gw := &fakeGateway{
		agentsErrs: []error{fmt.Errorf("list agents: %w", arena.ErrUnauthorized)},
		agents:     []arena.Agent{},
	}
	auth := &fakeAuth{cred: wallet.Credential{AccessToken: "fresh", UserID: 42}}
	r := newTestAccountRunner(gw, auth, nil)
	acct := testAccount()

	step, err := r.Run(context.Background(), acct)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if step.Paused() {
		t.Fatal("unexpected pause")
	}
	if auth.calls != 1 {
		t.Fatalf("reauthenticate called %d times, want exactly 1", auth.calls)
	}
	if gw.agentsCalls != 2 {
		t.Fatalf("ListAgents called %d times, want the failed call plus one retry", gw.agentsCalls)
	}
	if acct.Credential.AccessToken != "fresh" || acct.Credential.UserID != 42 {
		t.Fatalf("credential not replaced: %+v", acct.Credential)
	}
}

func TestAccountRunnerReauthFailureContinues(t *testing.T) {
	gw := &fakeGateway{
		statsErrs: []error{fmt.Errorf("stats: %w", arena.ErrUnauthorized)},
	}
	auth := &fakeAuth{err: errors.New("verify rejected")}
	r := newTestAccountRunner(gw, auth, nil)

	step, err := r.Run(context.Background(), testAccount())
	if err != nil {
		t.Fatalf("Run: %v, failed re-auth must not raise", err)
	}
	if step.Paused() {
		t.Fatal("unexpected pause")
	}
	if auth.calls != 1 {
		t.Fatalf("reauthenticate called %d times", auth.calls)
	}
}

func TestAccountRunnerRepeated401GivesUp(t *testing.T) {
	gw := &fakeGateway{
		statsErrs: []error{
			fmt.Errorf("stats: %w", arena.ErrUnauthorized),
			fmt.Errorf("stats: %w", arena.ErrUnauthorized),
		},
	}
	auth := &fakeAuth{cred: wallet.Credential{AccessToken: "fresh", UserID: 42}}
	r := newTestAccountRunner(gw, auth, nil)

	step, err := r.Run(context.Background(), testAccount())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if step.Paused() {
		t.Fatal("unexpected pause")
	}
	if auth.calls != 1 || gw.statsCalls != 2 {
		t.Fatalf("auth.calls = %d, statsCalls = %d; want a single bounded retry", auth.calls, gw.statsCalls)
	}
}

func TestAccountRunnerMissingStatsSkipsAccount(t *testing.T) {
	gw := &fakeGateway{
		statsErrs: []error{fmt.Errorf("stats: %w", arena.ErrNotFound)},
	}
	auth := &fakeAuth{}
	r := newTestAccountRunner(gw, auth, nil)

	step, err := r.Run(context.Background(), testAccount())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if step.Paused() {
		t.Fatal("unexpected pause")
	}
	if gw.agentsCalls != 0 {
		t.Fatal("agent list fetched despite missing stats")
	}
	if auth.calls != 0 {
		t.Fatal("reauthenticate called for a non-auth failure")
	}
}

func TestAccountRunnerPropagatesQuotaPause(t *testing.T) {
	gw := &fakeGateway{
		agents:       []arena.Agent{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		initiateErrs: []error{&arena.RemoteError{Status: 400, Message: "Hourly sessions limit exceeded"}},
	}
	auth := &fakeAuth{}
	r := newTestAccountRunner(gw, auth, nil)

	step, err := r.Run(context.Background(), testAccount())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !step.Paused() {
		t.Fatal("quota hit must surface as a pause")
	}
	// The second agent must not be joined once the quota is hit.
	if len(gw.initiatedWith) != 1 {
		t.Fatalf("initiatedWith = %v, want only the first agent", gw.initiatedWith)
	}
}
