package usecase

import (
	"testing"

	"app/internal/gateway/sslcommerz"

	"github.com/stretchr/testify/assert"
)

func TestCompareOutcomeMatch(t *testing.T) {
	claim := CallbackClaim{TranID: "AYMAN_1_ABCD1234", Amount: "1499.50"}
	validated := sslcommerz.ValidationResponse{TranID: "AYMAN_1_ABCD1234", Amount: "1499.5"}

	assert.Equal(t, MatchOK, CompareOutcome(claim, validated))
}

func TestCompareOutcomeIDMismatch(t *testing.T) {
	claim := CallbackClaim{TranID: "AYMAN_1_ABCD1234", Amount: "1499.50"}
	validated := sslcommerz.ValidationResponse{TranID: "AYMAN_2_FFFF0000", Amount: "1499.50"}

	assert.Equal(t, MatchIDMismatch, CompareOutcome(claim, validated))
}

func TestCompareOutcomeAmountMismatch(t *testing.T) {
	claim := CallbackClaim{TranID: "AYMAN_1_ABCD1234", Amount: "1499.50"}
	validated := sslcommerz.ValidationResponse{TranID: "AYMAN_1_ABCD1234", Amount: "10.00"}

	assert.Equal(t, MatchAmountMismatch, CompareOutcome(claim, validated))
}

// 最小通貨単位（2桁）以内の差は一致扱い
func TestCompareOutcomeMinorUnitRounding(t *testing.T) {
	claim := CallbackClaim{TranID: "t", Amount: "100.004"}
	validated := sslcommerz.ValidationResponse{TranID: "t", Amount: "100.00"}

	assert.Equal(t, MatchOK, CompareOutcome(claim, validated))

	claim.Amount = "100.01"
	assert.Equal(t, MatchAmountMismatch, CompareOutcome(claim, validated))
}

func TestCompareOutcomeUnparsableAmount(t *testing.T) {
	claim := CallbackClaim{TranID: "t", Amount: "abc"}
	validated := sslcommerz.ValidationResponse{TranID: "t", Amount: "100.00"}

	assert.Equal(t, MatchAmountMismatch, CompareOutcome(claim, validated))

	claim.Amount = "100.00"
	validated.Amount = ""
	assert.Equal(t, MatchAmountMismatch, CompareOutcome(claim, validated))
}
