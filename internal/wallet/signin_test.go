package wallet

import (
	"testing"
	"time"
)

func TestBuildSignInMessageLayout(t *testing.T) {
	params := SignInParams{
		Domain:    "dapp.example.xyz",
		URI:       "https://dapp.example.xyz",
		Statement: "Sign in with your wallet.",
		ChainID:   11155111,
	}
	issued := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	got := BuildSignInMessage(params, "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1", "n0nce", issued)
	want := "dapp.example.xyz wants you to sign in with your Ethereum account:\n" +
		"0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1\n" +
		"\n" +
		"Sign in with your wallet.\n" +
		"\n" +
		"URI: https://dapp.example.xyz\n" +
		"Version: 1\n" +
		"Chain ID: 11155111\n" +
		"Nonce: n0nce\n" +
		"Issued At: 2026-03-14T09:26:53Z"
	if got != want {
		t.Fatalf("message mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildSignInMessageNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	issued := time.Date(2026, 1, 2, 7, 0, 0, 0, loc)

	got := BuildSignInMessage(SignInParams{Domain: "d", URI: "u", Statement: "s", ChainID: 1}, "0xabc", "n", issued)
	const wantSuffix = "Issued At: 2026-01-02T00:00:00Z"
	if len(got) < len(wantSuffix) || got[len(got)-len(wantSuffix):] != wantSuffix {
		t.Fatalf("message does not end with %q:\n%s", wantSuffix, got)
	}
}
