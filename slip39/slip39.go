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

// Package slip39 implements SLIP-0039: Shamir's secret sharing for
// mnemonic codes. A master secret is encrypted with a passphrase-keyed
// Feistel network and split into a two-level hierarchy of shares, each
// rendered as a human-readable, checksummed mnemonic sentence. Any
// authorized combination of mnemonics recovers the master secret;
// unauthorized combinations learn nothing about it.
package slip39

import (
	"bytes"
	"encoding/binary"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang/glog"
	"github.com/google/tink/go/subtle/random"

	"github.com/seedshard/seedshard/slip39/internal/crypt"
	"github.com/seedshard/seedshard/slip39/internal/shamir"
)

const (
	maxGroupCount = shamir.MaxShareCount

	// MaxIterationExponent is the largest accepted iteration exponent;
	// the exponent doubles the PBKDF2 work factor per step.
	MaxIterationExponent = crypt.MaxIterationExponent
)

// MemberGroup describes one group of the sharing policy: MemberThreshold
// of MemberCount member shares are needed to reconstruct the group share.
type MemberGroup struct {
	MemberThreshold int
	MemberCount     int
}

// GenerateOpts configures Generate. The zero value is not useful; start
// from NewGenerateOpts and override fields as needed.
type GenerateOpts struct {
	// GroupThreshold is the number of groups that must be satisfied to
	// recover the master secret.
	GroupThreshold int

	// Groups lists the member policies, one entry per group.
	Groups []MemberGroup

	// Passphrase encrypts the master secret. It must consist of
	// printable ASCII characters. An empty passphrase is valid.
	Passphrase []byte

	// IterationExponent scales the passphrase-stretching work factor:
	// 10000 * 2^IterationExponent PBKDF2 iterations in total.
	IterationExponent int

	// Extendable marks the backup as extendable: recovery then does not
	// bind the passphrase to the share set identifier, so further share
	// sets for the same master secret can be created later.
	Extendable bool

	// Identifier optionally fixes the 15-bit share set identifier,
	// interpreted as a big-endian unsigned integer. Leave nil to sample
	// a fresh one.
	Identifier []byte
}

// NewGenerateOpts returns the default generation policy: a single
// extendable 1-of-1 share with no passphrase.
func NewGenerateOpts() *GenerateOpts {
	return &GenerateOpts{
		GroupThreshold: 1,
		Groups:         []MemberGroup{{MemberThreshold: 1, MemberCount: 1}},
		Extendable:     true,
	}
}

// ShareGroup is one generated group: the member threshold it was created
// with and the member mnemonics in member-index order.
type ShareGroup struct {
	MemberThreshold int
	Mnemonics       []string
}

// ShareSet is the result of Generate.
type ShareSet struct {
	Identifier        int
	Extendable        bool
	IterationExponent int
	GroupThreshold    int
	Groups            []ShareGroup
}

// Mnemonics returns all mnemonics of the set flattened in group order
// then member order.
func (s *ShareSet) Mnemonics() []string {
	var out []string
	for _, g := range s.Groups {
		out = append(out, g.Mnemonics...)
	}
	return out
}

// ShareInfo is the decoded metadata of a single mnemonic, exposed without
// the share value itself.
type ShareInfo struct {
	Identifier        int
	Extendable        bool
	IterationExponent int
	GroupIndex        int
	GroupThreshold    int
	GroupCount        int
	MemberIndex       int
	MemberThreshold   int
	SecretLength      int
}

// NewMasterSecret returns strengthBits of fresh random key material
// suitable as a master secret. The strength must be at least 128 bits
// and a multiple of 16.
func NewMasterSecret(strengthBits int) ([]byte, error) {
	if strengthBits < 8*minStrengthBytes {
		return nil, policyErrorf("strength %d is below the minimum of %d bits", strengthBits, 8*minStrengthBytes)
	}
	if strengthBits%16 != 0 {
		return nil, policyErrorf("strength %d is not a multiple of 16 bits", strengthBits)
	}
	return random.GetRandomBytes(uint32(strengthBits / 8)), nil
}

// Generate encrypts masterSecret under the passphrase and splits it into
// mnemonic shares per the policy in opts. A nil opts is equivalent to
// NewGenerateOpts().
func Generate(masterSecret []byte, opts *GenerateOpts) (*ShareSet, error) {
	if opts == nil {
		opts = NewGenerateOpts()
	}
	if err := validatePolicy(masterSecret, opts); err != nil {
		return nil, err
	}

	identifier, err := identifierFor(opts)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("Generating share set %05x: %d groups, group threshold %d, iteration exponent %d",
		identifier, len(opts.Groups), opts.GroupThreshold, opts.IterationExponent)

	encrypted, err := crypt.Encrypt(masterSecret, opts.Passphrase, opts.IterationExponent, identifier, opts.Extendable)
	if err != nil {
		return nil, fmt.Errorf("encrypting master secret: %w", err)
	}

	groupShares, err := shamir.Split(opts.GroupThreshold, len(opts.Groups), encrypted)
	if err != nil {
		return nil, fmt.Errorf("splitting into group shares: %w", err)
	}

	set := &ShareSet{
		Identifier:        identifier,
		Extendable:        opts.Extendable,
		IterationExponent: opts.IterationExponent,
		GroupThreshold:    opts.GroupThreshold,
		Groups:            make([]ShareGroup, len(opts.Groups)),
	}

	for gi, g := range opts.Groups {
		memberShares, err := shamir.Split(g.MemberThreshold, g.MemberCount, groupShares[gi])
		if err != nil {
			return nil, fmt.Errorf("splitting group %d into member shares: %w", gi, err)
		}

		group := ShareGroup{
			MemberThreshold: g.MemberThreshold,
			Mnemonics:       make([]string, g.MemberCount),
		}
		for mi, value := range memberShares {
			s := &share{
				identifier:        identifier,
				extendable:        opts.Extendable,
				iterationExponent: opts.IterationExponent,
				groupIndex:        gi,
				groupThreshold:    opts.GroupThreshold,
				groupCount:        len(opts.Groups),
				memberIndex:       mi,
				memberThreshold:   g.MemberThreshold,
				value:             value,
			}
			m, err := s.mnemonic()
			if err != nil {
				return nil, fmt.Errorf("encoding mnemonic for group %d member %d: %w", gi, mi, err)
			}
			group.Mnemonics[mi] = m
		}
		set.Groups[gi] = group
	}
	return set, nil
}

// Recover reconstructs the master secret from an authorized set of
// mnemonics. The mnemonics must all belong to one share set, form exactly
// the required number of groups, and each group must contain exactly its
// member threshold of distinct shares. Recovery with a wrong passphrase
// does not fail; it yields a different secret.
func Recover(mnemonics []string, passphrase []byte) ([]byte, error) {
	if len(mnemonics) == 0 {
		return nil, shareSetErrorf("no mnemonics provided")
	}
	if err := validatePassphrase(passphrase); err != nil {
		return nil, err
	}

	shares := make([]*share, len(mnemonics))
	params := mapset.NewThreadUnsafeSet[commonParams]()
	for i, m := range mnemonics {
		s, err := parseShare(m)
		if err != nil {
			return nil, err
		}
		shares[i] = s
		params.Add(s.common())
	}
	if params.Cardinality() != 1 {
		return nil, shareSetErrorf("mnemonics do not belong to the same share set")
	}
	common, _ := params.Pop()

	for _, s := range shares {
		if len(s.value) != len(shares[0].value) {
			return nil, shareSetErrorf("mnemonics carry share values of different lengths (%d and %d bytes)",
				len(shares[0].value), len(s.value))
		}
	}

	// Assemble the member shares per group, insisting that shares of one
	// group agree on the member threshold and carry distinct indices.
	type groupAccum struct {
		memberThreshold int
		points          map[int][]byte
	}
	groups := make(map[int]*groupAccum)
	for _, s := range shares {
		g, ok := groups[s.groupIndex]
		if !ok {
			g = &groupAccum{memberThreshold: s.memberThreshold, points: make(map[int][]byte)}
			groups[s.groupIndex] = g
		} else if g.memberThreshold != s.memberThreshold {
			return nil, shareSetErrorf("mnemonics of group %d disagree on the member threshold", s.groupIndex)
		}
		// A repeated mnemonic is harmless; two different shares claiming
		// the same member index are not.
		if existing, dup := g.points[s.memberIndex]; dup {
			if !bytes.Equal(existing, s.value) {
				return nil, shareSetErrorf("conflicting shares for member index %d in group %d", s.memberIndex, s.groupIndex)
			}
			continue
		}
		g.points[s.memberIndex] = s.value
	}

	if len(groups) != common.groupThreshold {
		return nil, shareSetErrorf("%d groups provided, want exactly %d", len(groups), common.groupThreshold)
	}

	groupPoints := make(map[int][]byte, len(groups))
	for gi, g := range groups {
		if len(g.points) != g.memberThreshold {
			return nil, shareSetErrorf("group %d has %d mnemonics, want exactly %d", gi, len(g.points), g.memberThreshold)
		}
		groupShare, err := shamir.RecoverSecret(g.memberThreshold, g.points)
		if err != nil {
			return nil, integrityErrorf("recovering group %d share: %v", gi, err)
		}
		groupPoints[gi] = groupShare
	}

	encrypted, err := shamir.RecoverSecret(common.groupThreshold, groupPoints)
	if err != nil {
		return nil, integrityErrorf("recovering master secret: %v", err)
	}

	glog.V(2).Infof("Recovered share set %05x from %d mnemonics across %d groups",
		common.identifier, len(mnemonics), len(groups))

	secret, err := crypt.Decrypt(encrypted, passphrase, common.iterationExponent, common.identifier, common.extendable)
	if err != nil {
		return nil, fmt.Errorf("decrypting master secret: %w", err)
	}
	return secret, nil
}

// ValidateMnemonic reports whether the mnemonic is well formed: correct
// length, known words, valid checksum, zero padding and consistent
// sharing parameters.
func ValidateMnemonic(mnemonic string) bool {
	_, err := parseShare(mnemonic)
	return err == nil
}

// ParseShareInfo decodes the metadata of a single mnemonic without
// recovering anything.
func ParseShareInfo(mnemonic string) (*ShareInfo, error) {
	s, err := parseShare(mnemonic)
	if err != nil {
		return nil, err
	}
	return &ShareInfo{
		Identifier:        s.identifier,
		Extendable:        s.extendable,
		IterationExponent: s.iterationExponent,
		GroupIndex:        s.groupIndex,
		GroupThreshold:    s.groupThreshold,
		GroupCount:        s.groupCount,
		MemberIndex:       s.memberIndex,
		MemberThreshold:   s.memberThreshold,
		SecretLength:      len(s.value),
	}, nil
}

func validatePolicy(masterSecret []byte, opts *GenerateOpts) error {
	if len(masterSecret) < minStrengthBytes {
		return policyErrorf("master secret is %d bytes, want at least %d", len(masterSecret), minStrengthBytes)
	}
	if len(masterSecret)%2 != 0 {
		return policyErrorf("master secret length %d is not an even number of bytes", len(masterSecret))
	}
	if err := validatePassphrase(opts.Passphrase); err != nil {
		return err
	}
	if opts.IterationExponent < 0 || opts.IterationExponent > MaxIterationExponent {
		return policyErrorf("iteration exponent %d outside [0, %d]", opts.IterationExponent, MaxIterationExponent)
	}
	if len(opts.Groups) == 0 {
		return policyErrorf("no groups specified")
	}
	if len(opts.Groups) > maxGroupCount {
		return policyErrorf("%d groups specified, maximum is %d", len(opts.Groups), maxGroupCount)
	}
	if opts.GroupThreshold < 1 || opts.GroupThreshold > len(opts.Groups) {
		return policyErrorf("group threshold %d outside [1, %d]", opts.GroupThreshold, len(opts.Groups))
	}
	for i, g := range opts.Groups {
		if g.MemberThreshold < 1 || g.MemberThreshold > g.MemberCount {
			return policyErrorf("group %d: member threshold %d outside [1, %d]", i, g.MemberThreshold, g.MemberCount)
		}
		if g.MemberCount > shamir.MaxShareCount {
			return policyErrorf("group %d: %d members, maximum is %d", i, g.MemberCount, shamir.MaxShareCount)
		}
		if g.MemberThreshold == 1 && g.MemberCount > 1 {
			return policyErrorf("group %d: a member threshold of 1 with %d members distributes the group share verbatim; use a 1-of-1 group instead", i, g.MemberCount)
		}
	}
	return nil
}

// validatePassphrase accepts printable ASCII only, so mnemonics and the
// passphrase survive transcription by hand.
func validatePassphrase(passphrase []byte) error {
	for i, c := range passphrase {
		if c < 32 || c > 126 {
			return policyErrorf("passphrase byte %d (0x%02x) is not printable ASCII", i, c)
		}
	}
	return nil
}

// identifierFor returns the caller-supplied identifier or draws a random
// 15-bit one.
func identifierFor(opts *GenerateOpts) (int, error) {
	if opts.Identifier == nil {
		b := random.GetRandomBytes(2)
		return int(binary.BigEndian.Uint16(b)) & maxIdentifier, nil
	}
	if len(opts.Identifier) > 2 {
		return 0, policyErrorf("identifier is %d bytes, want at most 2", len(opts.Identifier))
	}
	id := 0
	for _, b := range opts.Identifier {
		id = id<<8 | int(b)
	}
	if id > maxIdentifier {
		return 0, policyErrorf("identifier %#x does not fit in %d bits", id, idBits)
	}
	return id, nil
}
