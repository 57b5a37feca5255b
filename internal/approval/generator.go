// Package approval mints the human-presentable approval codes handed to a
// vendor when a job is paid. Codes are probabilistically unique; the job
// ledger rejects the vanishingly rare collision.
package approval

import (
	"math/rand"
	"regexp"
	"strings"
)

// Prefix is the fixed leading segment of every approval code.
const Prefix = "ASLN"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^ASLN-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Generate returns a code of the form ASLN-XXXX-XXXX where each X is drawn
// uniformly from [A-Z0-9]. It never blocks and never fails.
func Generate() string {
	var b strings.Builder
	b.Grow(len(Prefix) + 10)
	b.WriteString(Prefix)
	for i := 0; i < 2; i++ {
		b.WriteByte('-')
		for j := 0; j < 4; j++ {
			b.WriteByte(alphabet[rand.Intn(len(alphabet))])
		}
	}
	return b.String()
}

// Valid reports whether s is a well-formed approval code.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
