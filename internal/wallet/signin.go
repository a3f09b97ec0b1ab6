package wallet

import (
	"fmt"
	"time"
)

// SignInParams describes the EIP-4361 sign-in message the arena
// verifies. Version is fixed by the standard.
type SignInParams struct {
	Domain    string
	URI       string
	Statement string
	ChainID   int
}

const signInVersion = "1"

// BuildSignInMessage lays out the canonical sign-in text. issuedAt is
// injected so the message is reproducible under test; in production it
// is the wall clock, which makes every message unique even when the
// service hands out a repeated nonce.
func BuildSignInMessage(p SignInParams, address, nonce string, issuedAt time.Time) string {
	return fmt.Sprintf(
		"%s wants you to sign in with your Ethereum account:\n%s\n\n%s\n\nURI: %s\nVersion: %s\nChain ID: %d\nNonce: %s\nIssued At: %s",
		p.Domain,
		address,
		p.Statement,
		p.URI,
		signInVersion,
		p.ChainID,
		nonce,
		issuedAt.UTC().Format(time.RFC3339),
	)
}
