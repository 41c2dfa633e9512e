package service

import (
	"crypto/rand"
	"fmt"
)

// Alphabet for referral codes: uppercase letters and digits without the
// ambiguous 0/O and 1/I pairs. Codes are compared after uppercasing, so the
// generated form is already canonical.
const referralCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const referralCodeLength = 8

// generateReferralCode produces a random shareable code. Global uniqueness is
// enforced by the referral_code unique constraint; creation retries on
// collision.
func generateReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf), nil
}
