package sslcommerz

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateTransactionID はゲートウェイに渡すtran_idを作る。
// prefix + ミリ秒timestamp + CSPRNGの8桁hexで、調整なしの並列呼び出しでも衝突しない
func GenerateTransactionID(prefix string) string {
	if prefix == "" {
		prefix = "TXN"
	}

	b := make([]byte, 4)
	// go1.24以降crypto/randのReadは失敗しない
	_, _ = rand.Read(b)

	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(b)))
}
