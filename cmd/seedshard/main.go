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

// This binary is the main entrypoint for the seedshard command line tool.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"flag"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
	"github.com/seedshard/seedshard/slip39"
	"sigs.k8s.io/yaml"
)

const (
	// The default name for the seedshard policy file.
	defaultConfigName string = "seedshard.yaml"

	// The current version, displayed via the `version` subcommand.
	seedshardVersion string = "0.1.0"
)

// policyConfig mirrors the YAML policy file.
type policyConfig struct {
	Title             string        `json:"title,omitempty"`
	GroupThreshold    int           `json:"groupThreshold"`
	IterationExponent int           `json:"iterationExponent,omitempty"`
	Extendable        *bool         `json:"extendable,omitempty"`
	Groups            []groupConfig `json:"groups"`
}

type groupConfig struct {
	MemberThreshold int    `json:"memberThreshold"`
	MemberCount     int    `json:"memberCount"`
	Description     string `json:"description,omitempty"`
}

func defaultConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		glog.Errorf("Failed to get config directory location: %v", err.Error())
	}
	return fmt.Sprintf("%s/%s", cfgDir, defaultConfigName)
}

func loadPolicy(path string) (*policyConfig, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}
	cfg := &policyConfig{}
	if err := yaml.UnmarshalStrict(yamlBytes, cfg); err != nil {
		return nil, fmt.Errorf("parsing policy file: %w", err)
	}
	return cfg, nil
}

func (c *policyConfig) generateOpts(passphrase string) *slip39.GenerateOpts {
	opts := &slip39.GenerateOpts{
		GroupThreshold:    c.GroupThreshold,
		IterationExponent: c.IterationExponent,
		Passphrase:        []byte(passphrase),
		Extendable:        true,
	}
	if c.Extendable != nil {
		opts.Extendable = *c.Extendable
	}
	for _, g := range c.Groups {
		opts.Groups = append(opts.Groups, slip39.MemberGroup{
			MemberThreshold: g.MemberThreshold,
			MemberCount:     g.MemberCount,
		})
	}
	return opts
}

// openInput maps "-" to stdin.
func openInput(name string) (io.Reader, func(), error) {
	if name == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// readMnemonics reads one mnemonic per line, skipping blank lines and
// lines starting with '#'.
func readMnemonics(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var mnemonics []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		mnemonics = append(mnemonics, line)
	}
	return mnemonics, nil
}

// splitCmd handles CLI options for the split command.
type splitCmd struct {
	configFile string
	passphrase string
	hexInput   bool
	newBits    int
	quiet      bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a master secret into mnemonic shares according to the given policy"
}
func (*splitCmd) Usage() string {
	return fmt.Sprintf(`Usage: seedshard split [--config-file=<config_file>] [--passphrase=<passphrase>] <secret_file> <mnemonics_file>

Examples:
  Split a raw secret file, using %s for the sharing policy:
    $ seedshard split secret.bin mnemonics.txt

  Split a hex-encoded secret read from stdin, output to stdout:
    $ echo 0c1d2e... | seedshard split --hex - -

  Generate a fresh 256-bit secret, writing it to secret.bin:
    $ seedshard split --generate-bits=256 secret.bin mnemonics.txt

Flags:
`, defaultConfigPath())
	// The flags are automatically printed after the returned text.
}
func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.configFile, "config-file", defaultConfigPath(), "Path to a policy YAML file. Optional.")
	f.StringVar(&s.passphrase, "passphrase", "", "Passphrase protecting the master secret. Optional.")
	f.BoolVar(&s.hexInput, "hex", false, "Treat the secret file as hex-encoded.")
	f.IntVar(&s.newBits, "generate-bits", 0, "Generate a fresh master secret of this strength and write it to the secret file.")
	f.BoolVar(&s.quiet, "quiet", false, "Suppress logging output.")
}

func (s *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadPolicy(s.configFile)
	if err != nil {
		glog.Errorf("Failed to load policy: %v", err.Error())
		return subcommands.ExitFailure
	}

	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected secret file and mnemonics file)")
		return subcommands.ExitFailure
	}

	var secret []byte
	if s.newBits > 0 {
		secret, err = slip39.NewMasterSecret(s.newBits)
		if err != nil {
			glog.Errorf("Failed to generate master secret: %v", err.Error())
			return subcommands.ExitFailure
		}
		if f.Arg(0) != "-" {
			if err := os.WriteFile(f.Arg(0), secret, 0600); err != nil {
				glog.Errorf("Failed to write master secret: %v", err.Error())
				return subcommands.ExitFailure
			}
		}
	} else {
		in, done, err := openInput(f.Arg(0))
		if err != nil {
			glog.Errorf("Failed to open secret file: %v", err.Error())
			return subcommands.ExitFailure
		}
		secret, err = io.ReadAll(in)
		done()
		if err != nil {
			glog.Errorf("Failed to read secret file: %v", err.Error())
			return subcommands.ExitFailure
		}
		if s.hexInput {
			secret, err = hex.DecodeString(strings.TrimSpace(string(secret)))
			if err != nil {
				glog.Errorf("Failed to decode hex secret: %v", err.Error())
				return subcommands.ExitFailure
			}
		}
	}

	set, err := slip39.Generate(secret, cfg.generateOpts(s.passphrase))
	if err != nil {
		glog.Errorf("Failed to split master secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	var outFile *os.File
	var logFile *os.File
	if f.Arg(1) == "-" {
		outFile = os.Stdout
		logFile = os.Stderr
	} else {
		outFile, err = os.Create(f.Arg(1))
		if err != nil {
			glog.Errorf("Failed to open file for mnemonics: %v", err.Error())
			return subcommands.ExitFailure
		}
		defer outFile.Close()
		logFile = os.Stdout
	}

	for gi, group := range set.Groups {
		desc := ""
		if gi < len(cfg.Groups) {
			desc = cfg.Groups[gi].Description
		}
		if desc != "" {
			fmt.Fprintf(outFile, "# group %d (%s): %d of %d\n", gi+1, desc, group.MemberThreshold, len(group.Mnemonics))
		} else {
			fmt.Fprintf(outFile, "# group %d: %d of %d\n", gi+1, group.MemberThreshold, len(group.Mnemonics))
		}
		for _, m := range group.Mnemonics {
			fmt.Fprintln(outFile, m)
		}
		fmt.Fprintln(outFile)
	}

	if !s.quiet {
		logFile.WriteString(fmt.Sprintln("Wrote mnemonics to", outFile.Name()))
		logFile.WriteString(fmt.Sprintf("Share set identifier: %05x\n", set.Identifier))
		logFile.WriteString(fmt.Sprintf("Groups required for recovery: %d of %d\n", set.GroupThreshold, len(set.Groups)))
	}

	return subcommands.ExitSuccess
}

// recoverCmd handles CLI options for the recover command.
type recoverCmd struct {
	passphrase string
	hexOutput  bool
	quiet      bool
}

func (*recoverCmd) Name() string { return "recover" }
func (*recoverCmd) Synopsis() string {
	return "recovers a master secret from a set of mnemonic shares"
}
func (*recoverCmd) Usage() string {
	return `Usage: seedshard recover [--passphrase=<passphrase>] <mnemonics_file> <secret_file>

Examples:
  Recover from a file with one mnemonic per line:
    $ seedshard recover mnemonics.txt secret.bin

  Recover from stdin, hex output to stdout:
    $ seedshard recover --hex - - < mnemonics.txt

Flags:
`
}
func (r *recoverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.passphrase, "passphrase", "", "Passphrase protecting the master secret. Optional.")
	f.BoolVar(&r.hexOutput, "hex", false, "Write the recovered secret hex-encoded.")
	f.BoolVar(&r.quiet, "quiet", false, "Suppress logging output.")
}

func (r *recoverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected mnemonics file and secret file)")
		return subcommands.ExitFailure
	}

	in, done, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open mnemonics file: %v", err.Error())
		return subcommands.ExitFailure
	}
	mnemonics, err := readMnemonics(in)
	done()
	if err != nil {
		glog.Errorf("Failed to read mnemonics: %v", err.Error())
		return subcommands.ExitFailure
	}

	secret, err := slip39.Recover(mnemonics, []byte(r.passphrase))
	if err != nil {
		glog.Errorf("Failed to recover master secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	out := secret
	if r.hexOutput {
		out = []byte(hex.EncodeToString(secret) + "\n")
	}

	var outFile *os.File
	var logFile *os.File
	if f.Arg(1) == "-" {
		outFile = os.Stdout
		logFile = os.Stderr
	} else {
		outFile, err = os.Create(f.Arg(1))
		if err != nil {
			glog.Errorf("Failed to open file for secret: %v", err.Error())
			return subcommands.ExitFailure
		}
		defer outFile.Close()
		logFile = os.Stdout
	}
	if _, err := outFile.Write(out); err != nil {
		glog.Errorf("Failed to write secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !r.quiet {
		logFile.WriteString(fmt.Sprintln("Wrote recovered secret to", outFile.Name()))
		logFile.WriteString(fmt.Sprintf("Recovered from %d mnemonics\n", len(mnemonics)))
	}

	return subcommands.ExitSuccess
}

// validateCmd handles CLI options for the validate command.
type validateCmd struct{}

func (*validateCmd) Name() string { return "validate" }
func (*validateCmd) Synopsis() string {
	return "checks each mnemonic in a file for structural validity"
}
func (*validateCmd) Usage() string {
	return `Usage: seedshard validate <mnemonics_file>

Reads one mnemonic per line and reports whether each is well formed.
Exits nonzero if any mnemonic is invalid.
`
}
func (*validateCmd) SetFlags(*flag.FlagSet) {}

func (*validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected mnemonics file)")
		return subcommands.ExitFailure
	}

	in, done, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open mnemonics file: %v", err.Error())
		return subcommands.ExitFailure
	}
	mnemonics, err := readMnemonics(in)
	done()
	if err != nil {
		glog.Errorf("Failed to read mnemonics: %v", err.Error())
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for i, m := range mnemonics {
		if slip39.ValidateMnemonic(m) {
			fmt.Printf("mnemonic %d: valid\n", i+1)
		} else {
			fmt.Printf("mnemonic %d: INVALID\n", i+1)
			status = subcommands.ExitFailure
		}
	}
	return status
}

// infoCmd handles CLI options for the info command.
type infoCmd struct{}

func (*infoCmd) Name() string { return "info" }
func (*infoCmd) Synopsis() string {
	return "prints the metadata of each mnemonic in a file"
}
func (*infoCmd) Usage() string {
	return `Usage: seedshard info <mnemonics_file>

Reads one mnemonic per line and prints its share set identifier and
sharing parameters. The share values themselves are never printed.
`
}
func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (*infoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected mnemonics file)")
		return subcommands.ExitFailure
	}

	in, done, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open mnemonics file: %v", err.Error())
		return subcommands.ExitFailure
	}
	mnemonics, err := readMnemonics(in)
	done()
	if err != nil {
		glog.Errorf("Failed to read mnemonics: %v", err.Error())
		return subcommands.ExitFailure
	}

	for i, m := range mnemonics {
		info, err := slip39.ParseShareInfo(m)
		if err != nil {
			glog.Errorf("Failed to parse mnemonic %d: %v", i+1, err.Error())
			return subcommands.ExitFailure
		}
		fmt.Printf("mnemonic %d:\n", i+1)
		fmt.Printf("  identifier:         %05x\n", info.Identifier)
		fmt.Printf("  extendable:         %v\n", info.Extendable)
		fmt.Printf("  iteration exponent: %d\n", info.IterationExponent)
		fmt.Printf("  group:              %d of %d (threshold %d)\n", info.GroupIndex+1, info.GroupCount, info.GroupThreshold)
		fmt.Printf("  member:             %d (threshold %d)\n", info.MemberIndex+1, info.MemberThreshold)
		fmt.Printf("  secret length:      %d bytes\n", info.SecretLength)
	}
	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: seedshard version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("seedshard version %s\n", seedshardVersion)
	return subcommands.ExitSuccess
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&splitCmd{}, "")
	subcommands.Register(&recoverCmd{}, "")
	subcommands.Register(&validateCmd{}, "")
	subcommands.Register(&infoCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
