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

package wordlist

import (
	"sort"
	"testing"
)

func TestTableInvariants(t *testing.T) {
	if len(words) != Count {
		t.Fatalf("table has %d words, want %d", len(words), Count)
	}
	if !sort.SliceIsSorted(words[:], func(i, j int) bool { return words[i] < words[j] }) {
		t.Error("word table is not sorted")
	}

	prefixes := make(map[string]string, Count)
	for _, w := range words {
		if len(w) < 4 || len(w) > 8 {
			t.Errorf("word %q has length %d, want 4..8", w, len(w))
			continue
		}
		for _, c := range w {
			if c < 'a' || c > 'z' {
				t.Errorf("word %q contains non-lowercase character %q", w, c)
			}
		}
		p := w[:4]
		if prev, ok := prefixes[p]; ok {
			t.Errorf("words %q and %q share the 4-letter prefix %q", prev, w, p)
		}
		prefixes[p] = w
	}
}

func TestWordIndexRoundTrip(t *testing.T) {
	for i := 0; i < Count; i++ {
		w, err := Word(i)
		if err != nil {
			t.Fatalf("Word(%d) failed: %v", i, err)
		}
		j, ok := Index(w)
		if !ok || j != i {
			t.Fatalf("Index(%q) = (%d, %v), want (%d, true)", w, j, ok, i)
		}
	}
}

func TestWordOutOfRange(t *testing.T) {
	for _, i := range []int{-1, Count, Count + 1} {
		if _, err := Word(i); err == nil {
			t.Errorf("Word(%d) succeeded, want error", i)
		}
	}
}

func TestIndexUnknownWord(t *testing.T) {
	for _, w := range []string{"", "abandon", "zebra", "ACADEMIC"} {
		if _, ok := Index(w); ok {
			t.Errorf("Index(%q) reported membership", w)
		}
	}
}
