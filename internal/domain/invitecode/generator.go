package invitecode

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const (
	codeAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	shortLength    = 8
	fallbackLength = 16
	shortAttempts  = 5
)

// Format builds a code as <YYYY>-<random>
func Format(year int, random string) string {
	return strconv.Itoa(year) + "-" + random
}

// RandomString returns n characters drawn from an unambiguous alphabet
func RandomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

// Generator allocates unique codes. Claim tries to reserve a candidate and
// reports false when it collides with an existing code.
type Generator struct {
	Claim  func(ctx context.Context, code string) (bool, error)
	Random func(n int) (string, error)
	Now    func() time.Time
}

// Generate tries a bounded number of short codes, then one long fallback,
// then gives up with ErrInviteCodeGenerationExhausted.
func (g Generator) Generate(ctx context.Context) (string, error) {
	random := g.Random
	if random == nil {
		random = RandomString
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}
	year := now().Year()

	lengths := make([]int, 0, shortAttempts+1)
	for i := 0; i < shortAttempts; i++ {
		lengths = append(lengths, shortLength)
	}
	lengths = append(lengths, fallbackLength)

	for _, n := range lengths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		suffix, err := random(n)
		if err != nil {
			return "", err
		}
		code := Format(year, suffix)

		claimed, err := g.Claim(ctx, code)
		if err != nil {
			return "", err
		}
		if claimed {
			return code, nil
		}
	}
	return "", ErrInviteCodeGenerationExhausted
}
