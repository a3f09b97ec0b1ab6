package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"arena-bot/internal/arena"
)

// Credential is the bearer token plus remote user id for one account.
// Replaced wholesale on re-authentication, never patched.
type Credential struct {
	AccessToken string
	UserID      int64
}

// AuthGateway is the slice of the arena API the handshake needs.
type AuthGateway interface {
	FetchNonce(ctx context.Context) (string, error)
	VerifySignature(ctx context.Context, message, signature string) (arena.AuthResult, error)
}

// Authenticator drives the nonce/sign/verify handshake. It never
// retries internally; the caller decides whether a failure dooms one
// account or the whole run.
type Authenticator struct {
	gateway AuthGateway
	params  SignInParams
	now     func() time.Time
}

func NewAuthenticator(gateway AuthGateway, params SignInParams, now func() time.Time) *Authenticator {
	if now == nil {
		now = time.Now
	}
	return &Authenticator{gateway: gateway, params: params, now: now}
}

func (a *Authenticator) Reauthenticate(ctx context.Context, id Identity) (Credential, error) {
	nonce, err := a.gateway.FetchNonce(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("fetch nonce: %w", err)
	}

	message := BuildSignInMessage(a.params, id.Address, nonce, a.now())
	signature, err := id.SignPersonal(message)
	if err != nil {
		return Credential{}, err
	}

	result, err := a.gateway.VerifySignature(ctx, message, signature)
	if err != nil {
		return Credential{}, fmt.Errorf("verify signature: %w", err)
	}

	log.Debug().Str("wallet", id.Address).Int64("user_id", result.User.ID).Msg("authenticated")
	return Credential{AccessToken: result.AccessToken, UserID: result.User.ID}, nil
}
