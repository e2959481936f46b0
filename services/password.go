package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const passwordLen = 8

// One character is drawn from each class first so every generated password
// contains an uppercase letter, a lowercase letter, a digit and a symbol.
var passwordClasses = []string{
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"abcdefghijklmnopqrstuvwxyz",
	"0123456789",
	"!@#$%&*",
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GenerateSecurePassword returns an 8-character random password drawn from
// crypto/rand. Do not log the returned string.
func GenerateSecurePassword() (string, error) {
	var all string
	out := make([]byte, 0, passwordLen)
	for _, class := range passwordClasses {
		i, err := randomIndex(len(class))
		if err != nil {
			return "", err
		}
		out = append(out, class[i])
		all += class
	}
	for len(out) < passwordLen {
		i, err := randomIndex(len(all))
		if err != nil {
			return "", err
		}
		out = append(out, all[i])
	}
	// Shuffle so the class-guaranteed characters are not always first.
	for i := len(out) - 1; i >= 1; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

// ResetCredential generates a fresh password for a partner or courier
// account, stores its hash and returns the plain text for one-time display
// to the admin.
func ResetCredential(ctx context.Context, userID string) (string, error) {
	password, err := GenerateSecurePassword()
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	if err := SetCredential(ctx, userID, password); err != nil {
		return "", err
	}
	return password, nil
}
