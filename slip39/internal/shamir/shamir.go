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

// Package shamir implements the SLIP-0039 variant of Shamir's secret
// sharing over GF(2^8): byte-wise Lagrange interpolation at arbitrary
// abscissas, with the shared secret fixed at index 255 and a keyed digest
// of the secret at index 254 for integrity verification.
package shamir

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/tink/go/subtle/random"
	"github.com/seedshard/seedshard/slip39/internal/gf256"
)

const (
	// DigestIndex is the abscissa carrying the digest share.
	DigestIndex = 254

	// SecretIndex is the abscissa carrying the shared secret itself.
	SecretIndex = 255

	// MaxShareCount is the largest number of shares a secret can be
	// split into; share indices must fit in 4 bits on the wire.
	MaxShareCount = 16

	digestLength = 4
)

// ErrDigestMismatch is returned when the reconstructed digest share does
// not match the digest recomputed from the reconstructed secret,
// indicating wrong or corrupted shares.
var ErrDigestMismatch = errors.New("shamir: digest of the reconstructed secret does not match the digest share")

// Interpolate evaluates, for every byte position, the polynomial determined
// by the given points at abscissa x. Point values must all have the same
// length. If x is already present in points its value is returned directly.
func Interpolate(points map[int][]byte, x int) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New("shamir: no points to interpolate")
	}

	length := -1
	for xi, yi := range points {
		if length == -1 {
			length = len(yi)
		} else if len(yi) != length {
			return nil, fmt.Errorf("shamir: share at index %d has length %d, want %d", xi, len(yi), length)
		}
	}

	if yi, ok := points[x]; ok {
		out := make([]byte, length)
		copy(out, yi)
		return out, nil
	}

	// Lagrange basis in the logarithm domain: the sum of the logs of
	// (x_k XOR x) is shared between all basis polynomials, so each basis
	// value costs two subtractions modulo 255.
	logProd := 0
	for xk := range points {
		logProd += gf256.Log(byte(xk ^ x))
	}

	result := make([]byte, length)
	for xi, yi := range points {
		logDenom := 0
		for xk := range points {
			// The k == i term contributes Log(0) == 0.
			logDenom += gf256.Log(byte(xi ^ xk))
		}
		basis := gf256.Mod(logProd - gf256.Log(byte(xi^x)) - logDenom)
		for j, v := range yi {
			if v != 0 {
				result[j] ^= gf256.Exp(gf256.Log(v) + basis)
			}
		}
	}
	return result, nil
}

// Split splits secret into shareCount shares of which any threshold
// reconstruct it. Shares are returned in index order; the share at
// position i lies at abscissa i.
//
// A threshold of 1 returns plain copies of the secret with no randomness
// and no digest. Otherwise threshold-2 shares are drawn at random and the
// remaining shares are interpolated against the digest share (index 254)
// and the secret (index 255).
func Split(threshold, shareCount int, secret []byte) ([][]byte, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("shamir: threshold must be a positive integer, got %d", threshold)
	}
	if threshold > shareCount {
		return nil, fmt.Errorf("shamir: threshold %d exceeds share count %d", threshold, shareCount)
	}
	if shareCount > MaxShareCount {
		return nil, fmt.Errorf("shamir: share count %d exceeds maximum of %d", shareCount, MaxShareCount)
	}
	if len(secret) < digestLength {
		return nil, fmt.Errorf("shamir: secret must be at least %d bytes", digestLength)
	}

	shares := make([][]byte, shareCount)

	if threshold == 1 {
		for i := range shares {
			shares[i] = make([]byte, len(secret))
			copy(shares[i], secret)
		}
		return shares, nil
	}

	randomPad := random.GetRandomBytes(uint32(len(secret) - digestLength))
	digestShare := append(shareDigest(randomPad, secret), randomPad...)

	base := make(map[int][]byte, threshold)
	for i := 0; i < threshold-2; i++ {
		shares[i] = random.GetRandomBytes(uint32(len(secret)))
		base[i] = shares[i]
	}
	base[DigestIndex] = digestShare
	base[SecretIndex] = secret

	for i := threshold - 2; i < shareCount; i++ {
		share, err := Interpolate(base, i)
		if err != nil {
			return nil, err
		}
		shares[i] = share
	}
	return shares, nil
}

// RecoverSecret reconstructs the secret from the given points (abscissa to
// share value) and verifies it against the digest share. The caller is
// responsible for supplying exactly threshold points.
func RecoverSecret(threshold int, points map[int][]byte) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New("shamir: no shares provided")
	}

	if threshold == 1 {
		for _, v := range points {
			out := make([]byte, len(v))
			copy(out, v)
			return out, nil
		}
	}

	secret, err := Interpolate(points, SecretIndex)
	if err != nil {
		return nil, err
	}
	digestShare, err := Interpolate(points, DigestIndex)
	if err != nil {
		return nil, err
	}

	digest, randomPad := digestShare[:digestLength], digestShare[digestLength:]
	if !hmac.Equal(digest, shareDigest(randomPad, secret)) {
		return nil, ErrDigestMismatch
	}
	return secret, nil
}

// shareDigest returns the first four bytes of HMAC-SHA-256 keyed with the
// random pad over the secret.
func shareDigest(randomPad, secret []byte) []byte {
	mac := hmac.New(sha256.New, randomPad)
	mac.Write(secret)
	return mac.Sum(nil)[:digestLength]
}
