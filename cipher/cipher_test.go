// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-a2a/credbroker/types"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func TestNew_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		if _, err := New(bytes.Repeat([]byte{1}, n)); err == nil {
			t.Errorf("New() accepted a %d-byte key", n)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	c, err := New(testKey(0x42))
	if err != nil {
		t.Fatal(err)
	}

	const secret = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	sealed, err := c.Encrypt(secret)
	if err != nil {
		t.Fatal(err)
	}
	if sealed == secret {
		t.Fatal("Encrypt() returned the plaintext")
	}

	got, err := c.Decrypt(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if got != secret {
		t.Errorf("Decrypt() = %q, want %q", got, secret)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	c, err := New(testKey(0x42))
	if err != nil {
		t.Fatal(err)
	}

	a, err := c.Encrypt("secret")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Encrypt("secret")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical ciphertexts")
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	enc, err := New(testKey(0x42))
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := enc.Encrypt("secret")
	if err != nil {
		t.Fatal(err)
	}

	dec, err := New(testKey(0x43))
	if err != nil {
		t.Fatal(err)
	}
	_, err = dec.Decrypt(sealed)
	var decErr *types.DecryptionError
	if !errors.As(err, &decErr) {
		t.Fatalf("Decrypt() with wrong key returned %v, want *types.DecryptionError", err)
	}
}

func TestDecrypt_MalformedInput(t *testing.T) {
	c, err := New(testKey(0x42))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "not base64", ciphertext: "%%% not base64 %%%"},
		{name: "empty", ciphertext: ""},
		{name: "shorter than nonce", ciphertext: "AAAA"},
		{name: "truncated blob", ciphertext: "AAAAAAAAAAAAAAAAAAAAAAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.ciphertext)
			var decErr *types.DecryptionError
			if !errors.As(err, &decErr) {
				t.Errorf("Decrypt(%q) = %v, want *types.DecryptionError", tt.ciphertext, err)
			}
		})
	}
}
