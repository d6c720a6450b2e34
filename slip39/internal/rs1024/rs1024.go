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

// Package rs1024 implements the 30-bit Reed-Solomon style checksum over
// GF(1024) used to protect SLIP-0039 mnemonics. The checksum is carried as
// three 10-bit words and is computed over the share words prepended with a
// customization string that depends on the extendable-backup flag.
package rs1024

// ChecksumLength is the number of 10-bit checksum words.
const ChecksumLength = 3

// Customization strings mixed into the checksum (and, for non-extendable
// backups, the cipher salt). Each byte is one checksum input element.
const (
	CustomizationNonExtendable = "shamir"
	CustomizationExtendable    = "shamir_extendable"
)

var gen = [10]int{
	0xe0e040, 0x1c1c080, 0x3838100, 0x7070200, 0xe0e0009,
	0x1c0c2412, 0x38086c24, 0x3090fc48, 0x21b1f890, 0x3f3f120,
}

func polymod(values []int) int {
	chk := 1
	for _, v := range values {
		b := chk >> 20
		chk = (chk&0xfffff)<<10 ^ v
		for i := 0; i < 10; i++ {
			if (b>>i)&1 != 0 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func customizationValues(customization string) []int {
	values := make([]int, 0, len(customization)+ChecksumLength)
	for i := 0; i < len(customization); i++ {
		values = append(values, int(customization[i]))
	}
	return values
}

// CreateChecksum returns the three checksum words for the given data words.
func CreateChecksum(data []int, customization string) []int {
	values := append(customizationValues(customization), data...)
	values = append(values, make([]int, ChecksumLength)...)
	pm := polymod(values) ^ 1
	checksum := make([]int, ChecksumLength)
	for i := 0; i < ChecksumLength; i++ {
		checksum[i] = (pm >> (10 * (ChecksumLength - 1 - i))) & 1023
	}
	return checksum
}

// VerifyChecksum reports whether data, whose last three words are the
// checksum, verifies under the given customization string.
func VerifyChecksum(data []int, customization string) bool {
	return polymod(append(customizationValues(customization), data...)) == 1
}
