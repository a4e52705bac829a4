package usecase

import (
	"math"
	"strconv"

	"app/internal/gateway/sslcommerz"
)

// CallbackClaim はredirect/IPNで運ばれてくる未検証のパラメータ。
// ブラウザ経由で届くので、Validateの結果と突き合わせるまで一切信用しない
type CallbackClaim struct {
	ValID             string
	TranID            string
	Amount            string
	Status            string
	TranDate          string
	CardType          string
	CardNo            string
	BankTranID        string
	CardIssuer        string
	CardBrand         string
	CardIssuerCountry string
	//注文の主キー（value_aで往復した相関キー）
	ValueA string
}

type MatchResult int

const (
	MatchOK MatchResult = iota
	MatchIDMismatch
	MatchAmountMismatch
)

func (m MatchResult) String() string {
	switch m {
	case MatchOK:
		return "match"
	case MatchIDMismatch:
		return "id_mismatch"
	default:
		return "amount_mismatch"
	}
}

// CompareOutcome はclaimとValidateの結果を突き合わせる純関数。
// 金額は最小通貨単位（小数2桁）に丸めて一致で比較する
func CompareOutcome(claim CallbackClaim, validated sslcommerz.ValidationResponse) MatchResult {
	if validated.TranID != claim.TranID {
		return MatchIDMismatch
	}

	claimAmt, err := strconv.ParseFloat(claim.Amount, 64)
	if err != nil {
		return MatchAmountMismatch
	}
	validAmt, err := strconv.ParseFloat(validated.Amount, 64)
	if err != nil {
		return MatchAmountMismatch
	}

	if roundMinorUnit(claimAmt) != roundMinorUnit(validAmt) {
		return MatchAmountMismatch
	}

	return MatchOK
}

func roundMinorUnit(v float64) float64 {
	return math.Round(v*100) / 100
}
