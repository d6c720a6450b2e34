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

// Package crypt implements the SLIP-0039 master-secret encryption: a
// four-round Feistel network whose round keys are derived with
// PBKDF2-HMAC-SHA-256 from the passphrase, the round number and the
// right half of the state.
package crypt

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// iterationCount is the total PBKDF2 iteration budget at exponent 0,
	// spread evenly across the Feistel rounds.
	iterationCount = 10000

	roundCount = 4

	// MaxIterationExponent bounds the 4-bit wire field; the effective
	// iteration count is iterationCount * 2^e / roundCount.
	MaxIterationExponent = 16

	saltPrefix = "shamir"
)

// Encrypt runs the Feistel network forward over the master secret.
// The secret must have even length; the identifier is mixed into the salt
// unless the backup is extendable.
func Encrypt(masterSecret, passphrase []byte, iterationExponent, identifier int, extendable bool) ([]byte, error) {
	return feistel(masterSecret, passphrase, iterationExponent, identifier, extendable, false)
}

// Decrypt runs the Feistel network backwards over the encrypted master
// secret, undoing Encrypt for the same parameters.
func Decrypt(encryptedMasterSecret, passphrase []byte, iterationExponent, identifier int, extendable bool) ([]byte, error) {
	return feistel(encryptedMasterSecret, passphrase, iterationExponent, identifier, extendable, true)
}

func feistel(data, passphrase []byte, iterationExponent, identifier int, extendable bool, reverse bool) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("crypt: input length must be even")
	}
	if iterationExponent < 0 || iterationExponent > MaxIterationExponent {
		return nil, fmt.Errorf("crypt: iteration exponent %d outside [0, %d]", iterationExponent, MaxIterationExponent)
	}

	half := len(data) / 2
	salt := Salt(identifier, extendable)
	l := append([]byte{}, data[:half]...)
	r := append([]byte{}, data[half:]...)

	for i := 0; i < roundCount; i++ {
		round := i
		if reverse {
			round = roundCount - 1 - i
		}
		f := roundKey(byte(round), passphrase, iterationExponent, salt, r)
		for j := range l {
			l[j] ^= f[j]
		}
		l, r = r, l
	}
	return append(r, l...), nil
}

// roundKey derives the Feistel round key F(i, R) with PBKDF2-HMAC-SHA-256.
// The password is the round number prepended to the passphrase; the salt
// is the cipher salt followed by the right half of the state.
func roundKey(round byte, passphrase []byte, iterationExponent int, salt, r []byte) []byte {
	password := make([]byte, 0, 1+len(passphrase))
	password = append(password, round)
	password = append(password, passphrase...)

	seed := make([]byte, 0, len(salt)+len(r))
	seed = append(seed, salt...)
	seed = append(seed, r...)

	iterations := (iterationCount << iterationExponent) / roundCount
	return pbkdf2.Key(password, seed, iterations, len(r), sha256.New)
}

// Salt returns the cipher salt: empty for extendable backups, otherwise
// "shamir" followed by the two big-endian identifier bytes.
func Salt(identifier int, extendable bool) []byte {
	if extendable {
		return nil
	}
	salt := make([]byte, len(saltPrefix)+2)
	copy(salt, saltPrefix)
	binary.BigEndian.PutUint16(salt[len(saltPrefix):], uint16(identifier))
	return salt
}
