// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package cipher implements the broker's symmetric secret cipher.
//
// Stored tenant secrets are sealed with AES-256-GCM under a single
// process-wide key loaded from configuration. Every encryption uses a fresh
// random nonce, prepended to the ciphertext; the whole blob is base64
// encoded for storage in a text column. Decryption authenticates the
// ciphertext, so a wrong key or corrupted blob fails closed with a
// [*types.DecryptionError] instead of yielding garbage.
package cipher

import (
	aescipher "crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/go-a2a/credbroker/types"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// Cipher seals and opens stored secret material with a process-wide key.
type Cipher struct {
	key []byte
}

var _ types.SecretCipher = (*Cipher)(nil)

// New returns a [*Cipher] for the given 32-byte key.
//
// The key is process configuration, loaded once; it is never derived from
// request data.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, &types.DecryptionError{Reason: "encryption key must be exactly 32 bytes"}
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &Cipher{key: k}, nil
}

// Encrypt implements [types.SecretCipher].
//
// Each call draws a fresh nonce, so encrypting the same plaintext twice
// yields different ciphertexts. Provisioning and test use only.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	aead, err := c.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", &types.DecryptionError{Reason: "generate nonce", Err: err}
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt implements [types.SecretCipher].
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", &types.DecryptionError{Reason: "ciphertext is not valid base64", Err: err}
	}
	aead, err := c.aead()
	if err != nil {
		return "", err
	}
	if len(data) < aead.NonceSize() {
		return "", &types.DecryptionError{Reason: "ciphertext shorter than nonce"}
	}
	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		// Authentication tag mismatch: wrong key or corrupted blob.
		return "", &types.DecryptionError{Reason: "authentication failed", Err: err}
	}
	return string(plaintext), nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aescipher.NewCipher(c.key)
	if err != nil {
		return nil, &types.DecryptionError{Reason: "initialize cipher", Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &types.DecryptionError{Reason: "initialize GCM", Err: err}
	}
	return aead, nil
}
