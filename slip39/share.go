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

package slip39

import (
	"math/big"
	"strings"

	"github.com/seedshard/seedshard/slip39/internal/rs1024"
	"github.com/seedshard/seedshard/slip39/internal/wordlist"
)

const (
	// radixBits is the number of bits carried by one mnemonic word.
	radixBits = 10

	idBits           = 15
	iterationExpBits = 4

	maxIdentifier = 1<<idBits - 1

	// The identifier, extendable flag and iteration exponent pack into
	// the first two words; the five 4-bit sharing parameters into the
	// next two. The last three words are the checksum.
	idExpWords      = 2
	shareParamWords = 2
	metadataWords   = idExpWords + shareParamWords + rs1024.ChecksumLength

	minStrengthBytes = 16
	minMnemonicWords = metadataWords + (minStrengthBytes*8+radixBits-1)/radixBits
)

// share is one decoded mnemonic: the wire metadata plus the raw share value.
type share struct {
	identifier        int
	extendable        bool
	iterationExponent int
	groupIndex        int
	groupThreshold    int
	groupCount        int
	memberIndex       int
	memberThreshold   int
	value             []byte
}

// commonParams are the fields every mnemonic of one share set must agree
// on. The struct is comparable so share sets can be checked for
// consistency with set membership.
type commonParams struct {
	identifier        int
	extendable        bool
	iterationExponent int
	groupThreshold    int
	groupCount        int
}

func (s *share) common() commonParams {
	return commonParams{
		identifier:        s.identifier,
		extendable:        s.extendable,
		iterationExponent: s.iterationExponent,
		groupThreshold:    s.groupThreshold,
		groupCount:        s.groupCount,
	}
}

// wordIndices encodes the share into base-1024 word indices, without the
// checksum.
func (s *share) wordIndices() []int {
	extFlag := 0
	if s.extendable {
		extFlag = 1
	}
	prefix := s.identifier<<(1+iterationExpBits) | extFlag<<iterationExpBits | s.iterationExponent
	params := s.groupIndex<<16 |
		(s.groupThreshold-1)<<12 |
		(s.groupCount-1)<<8 |
		s.memberIndex<<4 |
		(s.memberThreshold - 1)

	data := intToWordIndices(prefix, idExpWords)
	data = append(data, intToWordIndices(params, shareParamWords)...)
	return append(data, bytesToWordIndices(s.value)...)
}

// mnemonic renders the share as a checksummed space-separated word string.
func (s *share) mnemonic() (string, error) {
	data := s.wordIndices()
	data = append(data, rs1024.CreateChecksum(data, customization(s.extendable))...)

	words := make([]string, len(data))
	for i, idx := range data {
		w, err := wordlist.Word(idx)
		if err != nil {
			return "", err
		}
		words[i] = w
	}
	return strings.Join(words, " "), nil
}

// parseShare decodes and validates a single mnemonic. All failures are
// reported as ShareFormatError.
func parseShare(mnemonic string) (*share, error) {
	fields := strings.Fields(strings.ToLower(mnemonic))
	if len(fields) < minMnemonicWords {
		return nil, shareFormatErrorf("mnemonic has %d words, want at least %d", len(fields), minMnemonicWords)
	}
	paddingBits := radixBits * (len(fields) - metadataWords) % 16
	if paddingBits > 8 {
		return nil, shareFormatErrorf("mnemonic length of %d words is not valid", len(fields))
	}

	data := make([]int, len(fields))
	for i, w := range fields {
		idx, ok := wordlist.Index(w)
		if !ok {
			return nil, shareFormatErrorf("word %d (%q) is not in the word list", i, w)
		}
		data[i] = idx
	}

	prefix := intFromWordIndices(data[:idExpWords])
	extendable := prefix>>iterationExpBits&1 == 1
	if !rs1024.VerifyChecksum(data, customization(extendable)) {
		return nil, shareFormatErrorf("checksum verification failed")
	}

	params := intFromWordIndices(data[idExpWords : idExpWords+shareParamWords])
	s := &share{
		identifier:        prefix >> (1 + iterationExpBits),
		extendable:        extendable,
		iterationExponent: prefix & (1<<iterationExpBits - 1),
		groupIndex:        params >> 16 & 0xF,
		groupThreshold:    params>>12&0xF + 1,
		groupCount:        params>>8&0xF + 1,
		memberIndex:       params >> 4 & 0xF,
		memberThreshold:   params&0xF + 1,
	}
	if s.groupCount < s.groupThreshold {
		return nil, shareFormatErrorf("group threshold %d exceeds group count %d", s.groupThreshold, s.groupCount)
	}

	valueWords := data[idExpWords+shareParamWords : len(data)-rs1024.ChecksumLength]
	value, err := bytesFromWordIndices(valueWords, (radixBits*len(valueWords)-paddingBits)/8)
	if err != nil {
		return nil, err
	}
	s.value = value
	return s, nil
}

// customization selects the RS1024 customization string for the
// extendable flag.
func customization(extendable bool) string {
	if extendable {
		return rs1024.CustomizationExtendable
	}
	return rs1024.CustomizationNonExtendable
}

// intToWordIndices splits value into count big-endian 10-bit word indices.
func intToWordIndices(value, count int) []int {
	out := make([]int, count)
	for i := count - 1; i >= 0; i-- {
		out[i] = value & (1<<radixBits - 1)
		value >>= radixBits
	}
	return out
}

// intFromWordIndices is the inverse of intToWordIndices.
func intFromWordIndices(words []int) int {
	value := 0
	for _, w := range words {
		value = value<<radixBits | w
	}
	return value
}

// bytesToWordIndices encodes b as big-endian base-1024 digits, left-padded
// with zero bits to a whole number of words.
func bytesToWordIndices(b []byte) []int {
	count := (8*len(b) + radixBits - 1) / radixBits
	v := new(big.Int).SetBytes(b)
	mask := big.NewInt(1<<radixBits - 1)
	tmp := new(big.Int)

	out := make([]int, count)
	for i := count - 1; i >= 0; i-- {
		out[i] = int(tmp.And(v, mask).Int64())
		v.Rsh(v, radixBits)
	}
	return out
}

// bytesFromWordIndices decodes big-endian base-1024 digits into byteCount
// bytes, rejecting values whose padding bits are not zero.
func bytesFromWordIndices(words []int, byteCount int) ([]byte, error) {
	v := new(big.Int)
	for _, w := range words {
		v.Lsh(v, radixBits)
		v.Or(v, big.NewInt(int64(w)))
	}
	if v.BitLen() > 8*byteCount {
		return nil, shareFormatErrorf("mnemonic padding bits are not zero")
	}
	return v.FillBytes(make([]byte, byteCount)), nil
}
