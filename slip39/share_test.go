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
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testShare(t *testing.T, valueLen int) *share {
	t.Helper()
	value := make([]byte, valueLen)
	if _, err := rand.Read(value); err != nil {
		t.Fatalf("Failed to read random bytes: %v", err)
	}
	return &share{
		identifier:        0x1E23,
		extendable:        true,
		iterationExponent: 2,
		groupIndex:        1,
		groupThreshold:    2,
		groupCount:        3,
		memberIndex:       4,
		memberThreshold:   5,
		value:             value,
	}
}

func TestShareMnemonicRoundTrip(t *testing.T) {
	for _, valueLen := range []int{16, 20, 32} {
		s := testShare(t, valueLen)
		m, err := s.mnemonic()
		if err != nil {
			t.Fatalf("mnemonic failed: %v", err)
		}
		got, err := parseShare(m)
		if err != nil {
			t.Fatalf("parseShare failed: %v", err)
		}
		if diff := cmp.Diff(s, got, cmp.AllowUnexported(share{})); diff != "" {
			t.Errorf("decoded share mismatch for %d-byte value (-want +got):\n%s", valueLen, diff)
		}
	}
}

func TestMnemonicWordCount(t *testing.T) {
	// A 16-byte value takes 13 data words plus 7 metadata words.
	s := testShare(t, 16)
	m, err := s.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	if got := len(strings.Fields(m)); got != 20 {
		t.Errorf("16-byte share encoded to %d words, want 20", got)
	}
}

func TestParseShareIsCaseInsensitive(t *testing.T) {
	s := testShare(t, 16)
	m, err := s.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	got, err := parseShare(strings.ToUpper(m))
	if err != nil {
		t.Fatalf("parseShare of upper-cased mnemonic failed: %v", err)
	}
	if !bytes.Equal(got.value, s.value) {
		t.Errorf("decoded value mismatch: %x vs %x", got.value, s.value)
	}
}

func TestParseShareRejectsInvalidWordCounts(t *testing.T) {
	s := testShare(t, 16)
	m, err := s.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	fields := strings.Fields(m)

	var fmtErr *ShareFormatError
	// Too short outright.
	if _, err := parseShare(strings.Join(fields[:19], " ")); !errors.As(err, &fmtErr) {
		t.Errorf("parseShare of 19 words returned %v, want ShareFormatError", err)
	}
	// 21 words implies 9 padding bits, which no byte length can produce.
	padded := append(append([]string{}, fields...), fields[0])
	if _, err := parseShare(strings.Join(padded, " ")); !errors.As(err, &fmtErr) {
		t.Errorf("parseShare of 21 words returned %v, want ShareFormatError", err)
	}
}

func TestParseShareRejectsUnknownWord(t *testing.T) {
	s := testShare(t, 16)
	m, err := s.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	fields := strings.Fields(m)
	fields[3] = "zebra"

	var fmtErr *ShareFormatError
	if _, err := parseShare(strings.Join(fields, " ")); !errors.As(err, &fmtErr) {
		t.Errorf("parseShare with unknown word returned %v, want ShareFormatError", err)
	}
}

func TestParseShareRejectsBadChecksum(t *testing.T) {
	s := testShare(t, 16)
	m, err := s.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	fields := strings.Fields(m)
	fields[0], fields[1] = fields[1], fields[0]
	if fields[0] == fields[1] {
		t.Skip("adjacent words happen to be equal")
	}

	var fmtErr *ShareFormatError
	if _, err := parseShare(strings.Join(fields, " ")); !errors.As(err, &fmtErr) {
		t.Errorf("parseShare with swapped words returned %v, want ShareFormatError", err)
	}
}

func TestParseShareRejectsInconsistentGroupParams(t *testing.T) {
	// A syntactically valid mnemonic whose group threshold exceeds the
	// group count must still be rejected.
	s := testShare(t, 16)
	s.groupThreshold = 3
	s.groupCount = 2
	s.groupIndex = 0
	m, err := s.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}

	var fmtErr *ShareFormatError
	if _, err := parseShare(m); !errors.As(err, &fmtErr) {
		t.Errorf("parseShare returned %v, want ShareFormatError", err)
	}
	if ValidateMnemonic(m) {
		t.Error("mnemonic with inconsistent group parameters passed validation")
	}
}

func TestRecoverReportsIntegrityError(t *testing.T) {
	// Two structurally consistent shares with unrelated random values
	// cannot satisfy the embedded digest.
	a := testShare(t, 16)
	a.groupIndex, a.groupThreshold, a.groupCount = 0, 1, 1
	a.memberIndex, a.memberThreshold = 0, 2
	b := testShare(t, 16)
	b.groupIndex, b.groupThreshold, b.groupCount = 0, 1, 1
	b.memberIndex, b.memberThreshold = 1, 2

	ma, err := a.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	mb, err := b.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}

	var intErr *IntegrityError
	if _, err := Recover([]string{ma, mb}, nil); !errors.As(err, &intErr) {
		t.Errorf("Recover of forged shares returned %v, want IntegrityError", err)
	}
}

func TestRecoverRejectsConflictingMemberShares(t *testing.T) {
	// Two different share values claiming the same member index cannot be
	// reconciled by deduplication.
	a := testShare(t, 16)
	a.groupIndex, a.groupThreshold, a.groupCount = 0, 1, 1
	a.memberIndex, a.memberThreshold = 0, 2
	b := testShare(t, 16)
	b.groupIndex, b.groupThreshold, b.groupCount = 0, 1, 1
	b.memberIndex, b.memberThreshold = 0, 2

	ma, err := a.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}
	mb, err := b.mnemonic()
	if err != nil {
		t.Fatalf("mnemonic failed: %v", err)
	}

	var setErr *ShareSetError
	if _, err := Recover([]string{ma, mb}, nil); !errors.As(err, &setErr) {
		t.Errorf("Recover of conflicting shares returned %v, want ShareSetError", err)
	}
}

func TestWordIndexCodecs(t *testing.T) {
	for _, v := range []int{0, 1, 1023, 1024, 0xFFFFF} {
		words := intToWordIndices(v, 2)
		if got := intFromWordIndices(words); got != v {
			t.Errorf("int codec round trip for %d returned %d", v, got)
		}
	}

	for _, b := range [][]byte{
		{0x00},
		{0xFF, 0xFF},
		bytes.Repeat([]byte{0xAB}, 16),
		bytes.Repeat([]byte{0x00}, 16),
	} {
		words := bytesToWordIndices(b)
		got, err := bytesFromWordIndices(words, len(b))
		if err != nil {
			t.Fatalf("bytesFromWordIndices failed: %v", err)
		}
		if !bytes.Equal(got, b) {
			t.Errorf("byte codec round trip for %x returned %x", b, got)
		}
	}
}

func TestBytesFromWordIndicesRejectsNonzeroPadding(t *testing.T) {
	// 13 words carry 130 bits; a value using more than 128 of them cannot
	// decode into 16 bytes.
	words := make([]int, 13)
	words[0] = 0x3FF
	if _, err := bytesFromWordIndices(words, 16); err == nil {
		t.Error("nonzero padding bits were accepted")
	}
}
