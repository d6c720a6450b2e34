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

import "fmt"

// PolicyError reports invalid sharing parameters: thresholds, counts,
// secret length, passphrase characters or the iteration exponent.
type PolicyError struct {
	msg string
}

func (e *PolicyError) Error() string { return "slip39: invalid policy: " + e.msg }

func policyErrorf(format string, args ...interface{}) error {
	return &PolicyError{msg: fmt.Sprintf(format, args...)}
}

// ShareFormatError reports a single mnemonic that cannot be decoded:
// wrong length, unknown words, bad checksum or nonzero padding.
type ShareFormatError struct {
	msg string
}

func (e *ShareFormatError) Error() string { return "slip39: invalid mnemonic: " + e.msg }

func shareFormatErrorf(format string, args ...interface{}) error {
	return &ShareFormatError{msg: fmt.Sprintf(format, args...)}
}

// ShareSetError reports a collection of individually valid mnemonics that
// do not assemble into a recoverable set: mixed identifiers, inconsistent
// parameters, or too few or too many shares for the declared thresholds.
type ShareSetError struct {
	msg string
}

func (e *ShareSetError) Error() string { return "slip39: invalid share set: " + e.msg }

func shareSetErrorf(format string, args ...interface{}) error {
	return &ShareSetError{msg: fmt.Sprintf(format, args...)}
}

// IntegrityError reports a share-set digest mismatch during recovery. The
// supplied shares are structurally consistent but at least one of them
// does not lie on the sharing polynomial.
type IntegrityError struct {
	msg string
}

func (e *IntegrityError) Error() string { return "slip39: integrity check failed: " + e.msg }

func integrityErrorf(format string, args ...interface{}) error {
	return &IntegrityError{msg: fmt.Sprintf(format, args...)}
}
