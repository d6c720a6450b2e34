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

// Package gf256 implements arithmetic over GF(2^8) with the irreducible
// polynomial x^8 + x^4 + x^3 + x + 1 (0x11B) and generator 3, using
// precomputed logarithm and exponent tables.
package gf256

// irreducible polynomial (x^8 + x^4 + x^3 + x + 1)
const polynomial = 0x11B

// generator of the multiplicative group used to build the tables
const generator = 3

var (
	expTable [255]byte
	logTable [256]byte
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)

		// Multiply x by the generator: x*3 = x*2 + x over GF(2^8).
		x2 := x << 1
		if x2 >= 0x100 {
			x2 ^= polynomial
		}
		x = x2 ^ x
	}
	// logTable[0] stays 0: the logarithm of zero is undefined and callers
	// must treat a zero operand as an absorbing element.
}

// Add returns a + b in GF(2^8). Subtraction is the same operation.
func Add(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b in GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(int(logTable[a])+int(logTable[b]))%255]
}

// Div returns a / b in GF(2^8). Division by zero is a programming error
// and panics.
func Div(a, b byte) byte {
	if b == 0 {
		panic("gf256: division by zero")
	}
	if a == 0 {
		return 0
	}
	return expTable[Mod(int(logTable[a])-int(logTable[b]))]
}

// Log returns the discrete logarithm of a to the base of the generator.
// Log(0) is undefined; for convenience it returns 0 so that callers
// accumulating logarithm sums can include self-terms without branching.
func Log(a byte) int {
	return int(logTable[a])
}

// Exp returns the generator raised to the power i, with i reduced to the
// non-negative residue class modulo 255.
func Exp(i int) byte {
	return expTable[Mod(i)]
}

// Mod reduces i modulo 255 into [0, 255). Go's remainder operator follows
// C semantics, so negative intermediates are corrected by adding 255.
func Mod(i int) int {
	i %= 255
	if i < 0 {
		i += 255
	}
	return i
}
