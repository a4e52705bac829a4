package sslcommerz

import "strings"

// ゲートウェイのstatus文字列を3択に分類した結果。
// 知らないstatusを成功/失敗に寄せてはいけないのでBucketPendingに落とす
type StatusBucket int

const (
	BucketPending StatusBucket = iota
	BucketSuccessful
	BucketFailed
)

func (b StatusBucket) String() string {
	switch b {
	case BucketSuccessful:
		return "successful"
	case BucketFailed:
		return "failed"
	default:
		return "pending"
	}
}

// 3分類
func ClassifyStatus(status string) StatusBucket {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "VALID", "VALIDATED":
		return BucketSuccessful
	case "FAILED", "CANCELLED", "UNATTEMPTED":
		return BucketFailed
	default:
		return BucketPending
	}
}
