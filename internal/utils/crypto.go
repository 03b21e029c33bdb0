package utils

import (
	"crypto/rand"
	"fmt"
)

const sessionSecretBytes = 32

// NewSessionSecret returns a random HMAC key. Cookies signed with it stop
// verifying once the process restarts.
func NewSessionSecret() ([]byte, error) {
	b := make([]byte, sessionSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return b, nil
}

func MustNewSessionSecret() []byte {
	secret, err := NewSessionSecret()
	if err != nil {
		panic(err.Error())
	}
	return secret
}
