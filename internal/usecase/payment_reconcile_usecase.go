package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway/sslcommerz"
	repo "app/internal/repository"
)

var (
	//必須フィールドが欠けたcallback
	ErrCallbackIncomplete = errors.New("incomplete callback payload")
	//相関キーがOrderに解決できない
	ErrOrderNotFound = errors.New("order not found")
	//claimとValidate結果の不一致（security-relevant。リトライしない）
	ErrValidationMismatch = errors.New("validation mismatch")
	//ゲートウェイ検証の結果が失敗系だった
	ErrPaymentFailed = errors.New("payment not successful")
	//IPN検証に失敗（何も書かずに400で返す）
	ErrIPNRejected = errors.New("ipn verification failed")
	//終端状態の注文に矛盾する遷移が要求された
	ErrOrderFinalized = errors.New("order already finalized")
)

// ゲートウェイのtran_dateの形式
const gatewayDateLayout = "2006-01-02 15:04:05"

type ReconcileOutput struct {
	OrderID  int64
	OrderRef string
	TranID   string
	Status   model.OrderStatus
	//この呼び出しで実際に書き込みが起きたか（冪等な再実行ではfalse）
	Applied bool
}

// PaymentReconcileUsecase は4つのentry point（success/fail/cancel redirect＋IPN）を捌く。
// どれも同じpayloadで2回呼ばれても状態を壊さない
type PaymentReconcileUsecase struct {
	orders  repo.OrderRepository
	gateway GatewayClient
}

func NewPaymentReconcileUsecase(orders repo.OrderRepository, gateway GatewayClient) *PaymentReconcileUsecase {
	return &PaymentReconcileUsecase{orders: orders, gateway: gateway}
}

// payload（form/IPN）からclaimを組み立てる
func ClaimFromValues(values map[string]string) CallbackClaim {
	return CallbackClaim{
		ValID:             values["val_id"],
		TranID:            values["tran_id"],
		Amount:            values["amount"],
		Status:            values["status"],
		TranDate:          values["tran_date"],
		CardType:          values["card_type"],
		CardNo:            values["card_no"],
		BankTranID:        values["bank_tran_id"],
		CardIssuer:        values["card_issuer"],
		CardBrand:         values["card_brand"],
		CardIssuerCountry: values["card_issuer_country"],
		ValueA:            values["value_a"],
	}
}

// value_aをOrderに解決する。相関キーは主キー文字列と等しい約束で、
// 違反していたら黙って直したりせず拒否する
func (u *PaymentReconcileUsecase) lookupOrder(ctx context.Context, claim CallbackClaim) (model.Order, error) {
	id, err := strconv.ParseInt(claim.ValueA, 10, 64)
	if err != nil || id <= 0 {
		return model.Order{}, ErrOrderNotFound
	}

	order, err := u.orders.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	//claimのtran_idがこのOrderのものと食い違っていたらprotocol違反
	if claim.TranID != "" && claim.TranID != order.OrderID {
		return model.Order{}, ErrValidationMismatch
	}

	return order, nil
}

// HandleSuccess はsuccess redirectを処理する。
// redirect自身の「成功しました」は信用せず、必ずValidateで裏を取る
func (u *PaymentReconcileUsecase) HandleSuccess(ctx context.Context, claim CallbackClaim) (ReconcileOutput, error) {
	if claim.ValID == "" || claim.TranID == "" {
		return ReconcileOutput{}, ErrCallbackIncomplete
	}

	order, err := u.lookupOrder(ctx, claim)
	if err != nil {
		return ReconcileOutput{}, err
	}

	validation, err := u.gateway.Validate(ctx, claim.ValID, "", "")
	if err != nil {
		return ReconcileOutput{}, err
	}

	out := ReconcileOutput{OrderID: order.ID, OrderRef: order.OrderID, TranID: claim.TranID}

	//検証結果が成功でなければfailed扱い
	if sslcommerz.ClassifyStatus(validation.Status) != sslcommerz.BucketSuccessful {
		applied, terr := u.orders.TransitionFromPending(ctx, order.ID, model.OrderStatusCancelled, repo.PaymentPatch{
			Status:            model.PaymentStatusFailed,
			ValidationID:      claim.ValID,
			BankTransactionID: claim.BankTranID,
			CardType:          claim.CardType,
			CardNo:            claim.CardNo,
			FailureReason:     validation.Status,
		})
		if terr != nil {
			return ReconcileOutput{}, terr
		}
		out.Status = model.OrderStatusCancelled
		out.Applied = applied
		return out, ErrPaymentFailed
	}

	//claimと検証結果の突き合わせ。不一致は成功ではなくfailedに落とす
	if match := CompareOutcome(claim, validation); match != MatchOK {
		applied, terr := u.orders.TransitionFromPending(ctx, order.ID, model.OrderStatusCancelled, repo.PaymentPatch{
			Status:            model.PaymentStatusFailed,
			ValidationID:      claim.ValID,
			BankTransactionID: validation.BankTranID,
			FailureReason:     "validation_mismatch: " + match.String(),
		})
		if terr != nil {
			return ReconcileOutput{}, terr
		}
		out.Status = model.OrderStatusCancelled
		out.Applied = applied
		return out, ErrValidationMismatch
	}

	return u.confirmOrder(ctx, order, validation, nil)
}

// HandleFail はfail redirectを処理する。確認するものがないので検証呼び出しは不要
func (u *PaymentReconcileUsecase) HandleFail(ctx context.Context, claim CallbackClaim) (ReconcileOutput, error) {
	if claim.TranID == "" || claim.ValueA == "" {
		return ReconcileOutput{}, ErrCallbackIncomplete
	}

	order, err := u.lookupOrder(ctx, claim)
	if err != nil {
		return ReconcileOutput{}, err
	}

	reason := claim.Status
	if reason == "" {
		reason = "Payment failed"
	}

	applied, err := u.orders.TransitionFromPending(ctx, order.ID, model.OrderStatusCancelled, repo.PaymentPatch{
		Status:            model.PaymentStatusFailed,
		ValidationID:      claim.ValID,
		BankTransactionID: claim.BankTranID,
		CardType:          claim.CardType,
		CardNo:            claim.CardNo,
		FailureReason:     reason,
	})
	if err != nil {
		return ReconcileOutput{}, err
	}

	return ReconcileOutput{
		OrderID:  order.ID,
		OrderRef: order.OrderID,
		TranID:   claim.TranID,
		Status:   model.OrderStatusCancelled,
		Applied:  applied,
	}, nil
}

// HandleCancel はcancel redirectを処理する。
// failと同じCANCELLEDに落ちるが、failure_reasonでユーザー都合と銀行拒否を区別する
func (u *PaymentReconcileUsecase) HandleCancel(ctx context.Context, claim CallbackClaim) (ReconcileOutput, error) {
	if claim.TranID == "" || claim.ValueA == "" {
		return ReconcileOutput{}, ErrCallbackIncomplete
	}

	order, err := u.lookupOrder(ctx, claim)
	if err != nil {
		return ReconcileOutput{}, err
	}

	applied, err := u.orders.TransitionFromPending(ctx, order.ID, model.OrderStatusCancelled, repo.PaymentPatch{
		Status:            model.PaymentStatusCancelled,
		ValidationID:      claim.ValID,
		BankTransactionID: claim.BankTranID,
		CardType:          claim.CardType,
		CardNo:            claim.CardNo,
		FailureReason:     model.FailureReasonUserCancelled,
	})
	if err != nil {
		return ReconcileOutput{}, err
	}

	return ReconcileOutput{
		OrderID:  order.ID,
		OrderRef: order.OrderID,
		TranID:   claim.TranID,
		Status:   model.OrderStatusCancelled,
		Applied:  applied,
	}, nil
}

// HandleIPN はserver-to-server webhookを処理する。
// ブラウザが戻ってこなくても最終的に届く唯一のentry point。
// payloadの言い分は一切信用せず、VerifyIPN＋独立したValidateの二段で裏を取る
func (u *PaymentReconcileUsecase) HandleIPN(ctx context.Context, payload map[string]string) (ReconcileOutput, error) {
	claim := ClaimFromValues(payload)

	if claim.ValID == "" || claim.TranID == "" || claim.ValueA == "" {
		return ReconcileOutput{}, ErrIPNRejected
	}

	if !u.gateway.VerifyIPN(ctx, payload) {
		return ReconcileOutput{}, ErrIPNRejected
	}

	order, err := u.lookupOrder(ctx, claim)
	if err != nil {
		if errors.Is(err, ErrValidationMismatch) {
			return ReconcileOutput{}, ErrIPNRejected
		}
		return ReconcileOutput{}, err
	}

	//payload自身のstatusも信用しない。もう一度Validateして分類する
	validation, err := u.gateway.Validate(ctx, claim.ValID, payload["store_id"], payload["store_passwd"])
	if err != nil {
		return ReconcileOutput{}, err
	}

	ipnVerified := true
	out := ReconcileOutput{OrderID: order.ID, OrderRef: order.OrderID, TranID: claim.TranID}

	switch sslcommerz.ClassifyStatus(validation.Status) {
	case sslcommerz.BucketSuccessful:
		//success redirectと同じ突き合わせ。不一致なら何も書かず拒否
		if CompareOutcome(claim, validation) != MatchOK {
			return ReconcileOutput{}, ErrIPNRejected
		}
		return u.confirmOrder(ctx, order, validation, &ipnVerified)

	case sslcommerz.BucketFailed:
		applied, terr := u.orders.TransitionFromPending(ctx, order.ID, model.OrderStatusCancelled, repo.PaymentPatch{
			Status:            model.PaymentStatusFailed,
			ValidationID:      claim.ValID,
			BankTransactionID: validation.BankTranID,
			CardType:          validation.CardType,
			CardNo:            validation.CardNo,
			IPNVerified:       &ipnVerified,
			FailureReason:     validation.Status,
		})
		if terr != nil {
			return ReconcileOutput{}, terr
		}
		out.Status = model.OrderStatusCancelled
		out.Applied = applied
		return out, nil

	default:
		//pending/unknown。メタデータだけ書いてstatusには触らない
		if err := u.orders.ApplyPayment(ctx, order.ID, repo.PaymentPatch{
			ValidationID:      claim.ValID,
			BankTransactionID: validation.BankTranID,
			CardType:          validation.CardType,
			CardNo:            validation.CardNo,
			IPNVerified:       &ipnVerified,
		}); err != nil {
			return ReconcileOutput{}, err
		}
		out.Status = order.Status
		out.Applied = true
		return out, nil
	}
}

// 検証済みの成功をOrderへ書き込む。カード情報などはclaimではなく検証結果側を採用する
func (u *PaymentReconcileUsecase) confirmOrder(
	ctx context.Context,
	order model.Order,
	validation sslcommerz.ValidationResponse,
	ipnVerified *bool,
) (ReconcileOutput, error) {
	patch := repo.PaymentPatch{
		Status:            model.PaymentStatusCompleted,
		ValidationID:      validation.ValID,
		BankTransactionID: validation.BankTranID,
		CardType:          validation.CardType,
		CardNo:            validation.CardNo,
		CardIssuer:        validation.CardIssuer,
		CardBrand:         validation.CardBrand,
		CardIssuerCountry: validation.CardIssuerCountry,
		IPNVerified:       ipnVerified,
	}

	if paidAt, err := time.Parse(gatewayDateLayout, validation.TranDate); err == nil {
		patch.PaidAt = &paidAt
	}

	out := ReconcileOutput{OrderID: order.ID, OrderRef: order.OrderID, TranID: validation.TranID}

	applied, err := u.orders.TransitionFromPending(ctx, order.ID, model.OrderStatusConfirmed, patch)
	if err != nil {
		return ReconcileOutput{}, err
	}

	if applied {
		out.Status = model.OrderStatusConfirmed
		out.Applied = true
		return out, nil
	}

	//すでに終端状態。同じ成功の再配送（冪等）か、矛盾する遷移かを区別する
	current, err := u.orders.FindByID(ctx, order.ID)
	if err != nil {
		return ReconcileOutput{}, err
	}

	if current.Status == model.OrderStatusConfirmed {
		//再配送。メタデータの積み上げだけ許す
		if ipnVerified != nil {
			if err := u.orders.ApplyPayment(ctx, order.ID, repo.PaymentPatch{IPNVerified: ipnVerified}); err != nil {
				return ReconcileOutput{}, err
			}
		}
		out.Status = model.OrderStatusConfirmed
		out.Applied = false
		return out, nil
	}

	return ReconcileOutput{}, ErrOrderFinalized
}
