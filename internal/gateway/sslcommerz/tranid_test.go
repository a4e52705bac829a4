package sslcommerz

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

var tranIDPattern = regexp.MustCompile(`^[A-Z]+_\d{13,}_[0-9A-F]{8}$`)

func TestGenerateTransactionIDFormat(t *testing.T) {
	id := GenerateTransactionID("AYMAN")

	assert.True(t, strings.HasPrefix(id, "AYMAN_"), "id=%s", id)
	assert.Regexp(t, tranIDPattern, id)
}

func TestGenerateTransactionIDDefaultPrefix(t *testing.T) {
	id := GenerateTransactionID("")
	assert.True(t, strings.HasPrefix(id, "TXN_"), "id=%s", id)
}

// 調整なしの並列呼び出しで衝突しないこと
func TestGenerateTransactionIDConcurrentUniqueness(t *testing.T) {
	const (
		workers = 10
		perG    = 1000
	)

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perG)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			ids := make([]string, 0, perG)
			for j := 0; j < perG; j++ {
				ids = append(ids, GenerateTransactionID("AYMAN"))
			}

			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
			return nil
		})
	}

	assert.NoError(t, g.Wait())
	assert.Len(t, seen, workers*perG)
}
