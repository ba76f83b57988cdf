package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"voucher_market/internal/domain"

	"github.com/sirupsen/logrus"
)

// CodeAlphabet is used for human-facing codes; it leaves out I, O, 0 and 1
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	shortCodeAttempts   = 5
	voucherCodeAttempts = 10
	voucherCodeLength   = 15
	base36Upper         = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// CodeChecker reports whether a candidate code is already stored
type CodeChecker interface {
	CodeExists(ctx context.Context, kind domain.CodeKind, code string) (bool, error)
}

// CodeGenerator mints collision-checked business codes. The check is a
// pre-flight only: the unique index on each code column decides at commit.
type CodeGenerator struct {
	checker CodeChecker
	now     func() time.Time
}

// NewCodeGenerator returns a generator checking candidates with checker
func NewCodeGenerator(checker CodeChecker) *CodeGenerator {
	return &CodeGenerator{checker: checker, now: time.Now}
}

// Candidate returns one random code of kind without an existence check
func (g *CodeGenerator) Candidate(kind domain.CodeKind) (string, error) {
	switch kind {
	case domain.CodeAffiliate:
		return prefixed("AF-", 6)
	case domain.CodeReferral:
		return prefixed("REF", 6)
	case domain.CodeMember:
		return prefixed("MB-", 6)
	case domain.CodeOrder:
		return prefixed("TRX-", 8)
	case domain.CodeVoucher:
		return randomFrom("0123456789", voucherCodeLength)
	case domain.CodeVendor:
		suffix, err := randomFrom(base36Upper, 4)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("V%s%02d", suffix, g.now().UnixMilli()%100), nil
	}
	return "", fmt.Errorf("unknown code kind %d", kind)
}

// Attempts returns the retry bound for kind
func Attempts(kind domain.CodeKind) int {
	if kind == domain.CodeVoucher {
		return voucherCodeAttempts
	}
	return shortCodeAttempts
}

// Generate returns a code of kind that was free at the time of the check
func (g *CodeGenerator) Generate(ctx context.Context, kind domain.CodeKind) (string, error) {
	for attempt := 1; attempt <= Attempts(kind); attempt++ {
		code, err := g.Candidate(kind)
		if err != nil {
			return "", storeError("failed to draw random code", err)
		}
		taken, err := g.checker.CodeExists(ctx, kind, code)
		if err != nil {
			return "", storeError("failed to check code uniqueness", err)
		}
		if !taken {
			return code, nil
		}
		logrus.WithFields(logrus.Fields{
			"kind":    kind.String(),
			"attempt": attempt,
		}).Warn("Code collision, retrying")
	}
	return "", exhausted(kind)
}

func exhausted(kind domain.CodeKind) *Error {
	return &Error{
		Kind:    KindCodeGenerationExhausted,
		Message: fmt.Sprintf("could not generate a unique %s after %d attempts", kind, Attempts(kind)),
		Fields:  []string{kind.String()},
	}
}

func prefixed(prefix string, n int) (string, error) {
	body, err := randomFrom(CodeAlphabet, n)
	if err != nil {
		return "", err
	}
	return prefix + body, nil
}

// randomFrom draws n uniform characters from alphabet
func randomFrom(alphabet string, n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[idx.Int64()])
	}
	return sb.String(), nil
}
