package auth

import (
	"fmt"
	"math/rand"
)

// CodeGenerator produces a verification code. Pluggable so tests can inject
// deterministic sequences.
type CodeGenerator func() string

// SixDigitCode draws six independent uniform digits, so leading zeros are
// legal ("004521" is a valid code). Collisions with earlier codes are not
// avoided.
func SixDigitCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
