package crypto

import (
	"errors"
	"fmt"
	"strings"
)

// CharacterClass identifies one of the fixed alphabets a password can draw from.
type CharacterClass int

const (
	Lowercase CharacterClass = iota
	Uppercase
	Digit
	Symbol
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// AllClasses lists every character class in pool order.
var AllClasses = []CharacterClass{Lowercase, Uppercase, Digit, Symbol}

var (
	ErrLengthTooShort = errors.New("password length is shorter than the number of selected character types")
	ErrOutOfRange     = errors.New("random source returned a value out of range")
)

// Alphabet returns the characters belonging to c.
func (c CharacterClass) Alphabet() string {
	switch c {
	case Lowercase:
		return lowercaseChars
	case Uppercase:
		return uppercaseChars
	case Digit:
		return digitChars
	case Symbol:
		return symbolChars
	}
	return ""
}

func (c CharacterClass) String() string {
	switch c {
	case Lowercase:
		return "lowercase"
	case Uppercase:
		return "uppercase"
	case Digit:
		return "numbers"
	case Symbol:
		return "symbols"
	}
	return fmt.Sprintf("CharacterClass(%d)", int(c))
}

// ClassOf reports which class ch belongs to.
func ClassOf(ch byte) (CharacterClass, bool) {
	for _, c := range AllClasses {
		if strings.IndexByte(c.Alphabet(), ch) >= 0 {
			return c, true
		}
	}
	return 0, false
}

// GenerationConfig configures the password generator.
type GenerationConfig struct {
	Length    int
	Lowercase bool
	Uppercase bool
	Digits    bool
	Symbols   bool
}

// DefaultGenerationConfig returns 16 characters of letters and digits.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Length:    16,
		Lowercase: true,
		Uppercase: true,
		Digits:    true,
	}
}

// Classes returns the enabled classes in pool order.
func (c GenerationConfig) Classes() []CharacterClass {
	var out []CharacterClass
	if c.Lowercase {
		out = append(out, Lowercase)
	}
	if c.Uppercase {
		out = append(out, Uppercase)
	}
	if c.Digits {
		out = append(out, Digit)
	}
	if c.Symbols {
		out = append(out, Symbol)
	}
	return out
}

// Pool returns the union of the enabled alphabets.
func (c GenerationConfig) Pool() string {
	var sb strings.Builder
	for _, cls := range c.Classes() {
		sb.WriteString(cls.Alphabet())
	}
	return sb.String()
}

// Generate builds a password of cfg.Length characters containing at least one
// character of every enabled class. If no class is enabled the result is
// empty and no error is reported.
func Generate(cfg GenerationConfig, rng RandomSource) (string, error) {
	classes := cfg.Classes()
	if len(classes) == 0 {
		return "", nil
	}
	if cfg.Length < len(classes) {
		return "", fmt.Errorf("%w: length %d, need at least %d", ErrLengthTooShort, cfg.Length, len(classes))
	}

	result := make([]byte, 0, cfg.Length)

	// One character from each class's own alphabet.
	for _, cls := range classes {
		ch, err := pick(rng, cls.Alphabet())
		if err != nil {
			return "", err
		}
		result = append(result, ch)
	}

	pool := cfg.Pool()
	for len(result) < cfg.Length {
		ch, err := pick(rng, pool)
		if err != nil {
			return "", err
		}
		result = append(result, ch)
	}

	if err := shuffle(rng, result); err != nil {
		return "", err
	}
	return string(result), nil
}

func pick(rng RandomSource, charset string) (byte, error) {
	n, err := draw(rng, len(charset))
	if err != nil {
		return 0, fmt.Errorf("drawing character: %w", err)
	}
	return charset[n], nil
}

// shuffle is a Fisher-Yates shuffle driven by rng.
func shuffle(rng RandomSource, data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := draw(rng, i+1)
		if err != nil {
			return fmt.Errorf("shuffling: %w", err)
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

// draw calls rng.IntN(n) and rejects values outside [0, n).
func draw(rng RandomSource, n int) (int, error) {
	v, err := rng.IntN(n)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= n {
		return 0, fmt.Errorf("%w: got %d, want [0, %d)", ErrOutOfRange, v, n)
	}
	return v, nil
}
