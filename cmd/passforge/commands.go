package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mds/value"
	"github.com/vaultpass/passforge-go/internal/advisor"
	"github.com/vaultpass/passforge-go/internal/config"
	"github.com/vaultpass/passforge-go/internal/crypto"
)

var generateCommand = &command.C{
	Name: "generate",
	Help: `Generate one or more passwords.

By default a password is 16 characters of letters and digits.
Use --symbols to include punctuation and --no-lower, --no-upper or
--no-digits to exclude a type. With --seed the output is reproducible,
which is useful for tests but must not be used for real passwords.`,
	SetFlags: command.Flags(flax.MustBind, &genFlags),
	Run:      command.Adapt(runGenerate),
}

var suggestCommand = &command.C{
	Name:  "suggest",
	Usage: "[password]",
	Help: `Ask the separator advisor how to make a password easier to read.

Without an argument a new password is generated first using the same
flags as generate. The password is printed before the advisor is
contacted, and an advisor failure never changes it.`,
	SetFlags: command.Flags(flax.MustBind, &genFlags),
	Run:      command.Adapt(runSuggest),
}

var genFlags struct {
	Length   int    `flag:"n,default=16,The length of the password to generate"`
	NoLower  bool   `flag:"no-lower,Omit lowercase letters"`
	NoUpper  bool   `flag:"no-upper,Omit uppercase letters"`
	NoDigits bool   `flag:"no-digits,Omit digits"`
	Symbols  bool   `flag:"symbols,Include punctuation"`
	Count    int    `flag:"count,default=1,Number of passwords to generate"`
	Seed     string `flag:"seed,Use a deterministic source with this unsigned seed (not for real passwords)"`
}

func generationConfig() crypto.GenerationConfig {
	return crypto.GenerationConfig{
		Length:    genFlags.Length,
		Lowercase: !genFlags.NoLower,
		Uppercase: !genFlags.NoUpper,
		Digits:    !genFlags.NoDigits,
		Symbols:   genFlags.Symbols,
	}
}

// randomSource returns the secure source unless seed is non-empty. Every
// uint64 including 0 is a valid seed.
func randomSource(seed string) (crypto.RandomSource, error) {
	if seed == "" {
		return crypto.NewSecureSource(), nil
	}
	v, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
	}
	return crypto.NewSeededSource(v), nil
}

func runGenerate(env *command.Env) error {
	if genFlags.Count <= 0 {
		return env.Usagef("the count must be positive")
	}
	rng, err := randomSource(genFlags.Seed)
	if err != nil {
		return env.Usagef("%v", err)
	}
	return writePasswords(os.Stdout, os.Stderr, generationConfig(), rng, genFlags.Count)
}

// writePasswords writes n passwords to w, one per line. An empty selection
// is reported on errw rather than printed as a blank line.
func writePasswords(w, errw io.Writer, cfg crypto.GenerationConfig, rng crypto.RandomSource, n int) error {
	for i := 0; i < n; i++ {
		pw, err := crypto.Generate(cfg, rng)
		if err != nil {
			return err
		}
		if pw == "" {
			fmt.Fprintln(errw, "no character types selected; nothing to generate")
			return nil
		}
		fmt.Fprintln(w, pw)
	}
	return nil
}

func runSuggest(env *command.Env, optPassword ...string) error {
	var pw string
	switch len(optPassword) {
	case 0:
		rng, err := randomSource(genFlags.Seed)
		if err != nil {
			return env.Usagef("%v", err)
		}
		pw, err = crypto.Generate(generationConfig(), rng)
		if err != nil {
			return err
		}
		if pw == "" {
			return env.Usagef("no character types selected")
		}
	case 1:
		pw = optPassword[0]
	default:
		return env.Usagef("extra arguments after password: %q", optPassword[1:])
	}

	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrDefaultSecretInProduction) {
		return err
	}
	var adv advisor.Advisor
	if cfg.AdvisorEnabled() {
		adv = advisor.NewHTTPAdvisor(cfg.AdvisorURL, cfg.AdvisorAPIKey, cfg.AdvisorModel, cfg.AdvisorTimeout)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	gw := advisor.NewGateway(adv, cfg.AdvisorTimeout, logger)

	printSuggestion(env.Context(), os.Stdout, gw, pw)
	return nil
}

// printSuggestion prints pw and then the advisor's answer or a notice.
func printSuggestion(ctx context.Context, w io.Writer, gw *advisor.Gateway, pw string) {
	fmt.Fprintln(w, pw)

	res := gw.Result(ctx, pw)
	if !res.OK() {
		fmt.Fprintf(w, "\nSuggestion unavailable: %s\n", res.Error)
		return
	}
	sep := value.Cond(res.SuggestedSeparator == " ", "(space)", res.SuggestedSeparator)
	fmt.Fprintf(w, "\nSuggested separator: %s\nReasoning: %s\n", sep, res.Reasoning)
}
