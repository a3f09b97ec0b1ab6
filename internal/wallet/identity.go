package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Identity binds a wallet address to its signing key. The key never
// leaves this package and is never logged; immutable for the process
// lifetime.
type Identity struct {
	Address string

	key *ecdsa.PrivateKey
}

func ParseIdentity(privateKeyHex string) (Identity, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return Identity{}, fmt.Errorf("parse private key: %w", err)
	}
	return Identity{
		Address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
		key:     key,
	}, nil
}

// SignPersonal produces an EIP-191 personal-message signature in the
// 0x-prefixed hex form the verify endpoint expects.
func (id Identity) SignPersonal(message string) (string, error) {
	if id.key == nil {
		return "", fmt.Errorf("identity %s has no signing key", id.Address)
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), id.key)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	// Wallets report the recovery id as 27/28.
	sig[64] += 27
	return hexutil.Encode(sig), nil
}
