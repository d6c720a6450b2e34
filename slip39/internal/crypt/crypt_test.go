// Copyright 2025 Seedshard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crypt

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"
)

func getRandomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("Failed to read random bytes: %v", err)
	}
	return b
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		secretLen  int
		exponent   int
		extendable bool
		passphrase string
	}{
		{16, 0, true, ""},
		{16, 0, false, "TREZOR"},
		{16, 1, true, "TREZOR"},
		{32, 2, false, "passphrase"},
		{20, 0, true, "x"},
	} {
		name := fmt.Sprintf("len%d-e%d-ext%v", tc.secretLen, tc.exponent, tc.extendable)
		t.Run(name, func(t *testing.T) {
			secret := getRandomBytes(t, tc.secretLen)
			const identifier = 0x1234

			encrypted, err := Encrypt(secret, []byte(tc.passphrase), tc.exponent, identifier, tc.extendable)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if len(encrypted) != len(secret) {
				t.Fatalf("Encrypt changed length: got %d, want %d", len(encrypted), len(secret))
			}
			if bytes.Equal(encrypted, secret) {
				t.Error("Encrypt returned the plaintext unchanged")
			}

			decrypted, err := Decrypt(encrypted, []byte(tc.passphrase), tc.exponent, identifier, tc.extendable)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if !bytes.Equal(decrypted, secret) {
				t.Errorf("Decrypt = %x, want %x", decrypted, secret)
			}
		})
	}
}

func TestWrongPassphraseDiffers(t *testing.T) {
	secret := getRandomBytes(t, 16)
	encrypted, err := Encrypt(secret, []byte("TREZOR"), 0, 42, true)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	decrypted, err := Decrypt(encrypted, []byte(""), 0, 42, true)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if bytes.Equal(decrypted, secret) {
		t.Error("decryption with the wrong passphrase reproduced the secret")
	}
}

func TestIdentifierBindsCiphertextUnlessExtendable(t *testing.T) {
	secret := getRandomBytes(t, 16)

	a, err := Encrypt(secret, nil, 0, 1, false)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	b, err := Encrypt(secret, nil, 0, 2, false)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("different identifiers produced identical ciphertexts without the extendable flag")
	}

	a, err = Encrypt(secret, nil, 0, 1, true)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	b, err = Encrypt(secret, nil, 0, 2, true)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("extendable ciphertexts depend on the identifier")
	}
}

func TestRejectsOddLength(t *testing.T) {
	if _, err := Encrypt(getRandomBytes(t, 17), nil, 0, 0, true); err == nil {
		t.Error("Encrypt accepted an odd-length secret")
	}
	if _, err := Decrypt(getRandomBytes(t, 17), nil, 0, 0, true); err == nil {
		t.Error("Decrypt accepted an odd-length input")
	}
}

func TestRejectsIterationExponentOutOfRange(t *testing.T) {
	secret := getRandomBytes(t, 16)
	for _, e := range []int{-1, MaxIterationExponent + 1, 33} {
		if _, err := Encrypt(secret, nil, e, 0, true); err == nil {
			t.Errorf("Encrypt accepted iteration exponent %d", e)
		}
	}
}

func TestSalt(t *testing.T) {
	if got := Salt(0x1234, true); len(got) != 0 {
		t.Errorf("Salt(extendable) = %x, want empty", got)
	}
	want := append([]byte("shamir"), 0x12, 0x34)
	if got := Salt(0x1234, false); !bytes.Equal(got, want) {
		t.Errorf("Salt = %x, want %x", got, want)
	}
}
