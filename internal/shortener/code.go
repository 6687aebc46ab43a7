package shortener

import "github.com/jaevor/go-nanoid"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 6

// Alphabet is the set of symbols used for generated codes.
// It is the alphanumeric subset of the url-safe alphabet, so every issued code
// also passes IsValidCode.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// CodeGenerator generates random short codes.
type CodeGenerator func() string

// NewCodeGenerator returns a nanoid-backed generator producing codes of the given length.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}

// IsValidCode reports whether code is non-empty and purely ASCII alphanumeric.
func IsValidCode(code string) bool {
	if code == "" {
		return false
	}

	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}

	return true
}

// reservedCodes collide with fixed routes served next to /{code}.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"create":  {},
	"docs":    {},
	"health":  {},
	"metrics": {},
	"openapi": {},
	"r":       {},
	"schemas": {},
}

func isReservedCode(code string) bool {
	_, ok := reservedCodes[code]

	return ok
}
