package sslcommerz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	sandboxBaseURL = "https://sandbox.sslcommerz.com"
	liveBaseURL    = "https://securepay.sslcommerz.com"

	initPath     = "/gwprocess/v4/api.php"
	validatePath = "/validator/api/validationserverAPI.php"
)

type Config struct {
	StoreID       string
	StorePassword string
	Live          bool
}

// Client はSSLCommerzのセッション開始・検証APIの薄いラッパー。
// 店舗credentialと環境別base URLを持って各所に注入される（グローバルにしない）
type Client struct {
	storeID     string
	storePasswd string
	baseURL     string
	httpClient  *http.Client
}

func NewClient(cfg Config) *Client {
	baseURL := sandboxBaseURL
	if cfg.Live {
		baseURL = liveBaseURL
	}

	return &Client{
		storeID:     cfg.StoreID,
		storePasswd: cfg.StorePassword,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// テストや特殊環境でendpoint/http clientを差し替える
func NewClientWithBaseURL(cfg Config, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		storeID:     cfg.StoreID,
		storePasswd: cfg.StorePassword,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
	}
}

// InitSession はhosted paymentセッションを開く。
// ゲートウェイが拒否した場合もerrorにはせずStatus/FailedReasonをそのまま返す（呼び出し側が判断）
func (c *Client) InitSession(ctx context.Context, req InitRequest) (InitResponse, error) {
	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_passwd", c.storePasswd)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.TotalAmount))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TranID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("ipn_url", req.IPNURL)
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_phone", req.CustomerPhone)
	form.Set("cus_add1", defaultIfEmpty(req.Address1, "N/A"))
	form.Set("cus_city", defaultIfEmpty(req.City, "Dhaka"))
	form.Set("cus_country", defaultIfEmpty(req.Country, "Bangladesh"))
	if req.PostalCode != "" {
		form.Set("cus_postcode", req.PostalCode)
	}
	if req.ShipName != "" {
		form.Set("ship_name", req.ShipName)
		form.Set("ship_add1", req.ShipAddress)
		form.Set("ship_city", req.ShipCity)
		form.Set("ship_postcode", req.ShipPostalCode)
		form.Set("ship_country", req.ShipCountry)
	}
	form.Set("product_name", req.ProductName)
	form.Set("product_category", req.ProductCategory)
	form.Set("product_profile", defaultIfEmpty(req.ProductProfile, "general"))
	form.Set("value_a", req.ValueA)

	var out InitResponse
	if err := c.postForm(ctx, initPath, form, &out); err != nil {
		return InitResponse{}, err
	}
	return out, nil
}

// Validate はval_idの正式なstatusをserver-to-serverで取りに行く。
// redirectパラメータはブラウザ経由で改ざんできるので、ここの結果だけを信用する
func (c *Client) Validate(ctx context.Context, valID string, storeID string, storePasswd string) (ValidationResponse, error) {
	//IPNは自分のstore credentialを運んでくるのでoverride可
	if storeID == "" {
		storeID = c.storeID
	}
	if storePasswd == "" {
		storePasswd = c.storePasswd
	}

	form := url.Values{}
	form.Set("val_id", valID)
	form.Set("store_id", storeID)
	form.Set("store_passwd", storePasswd)

	var out ValidationResponse
	if err := c.postForm(ctx, validatePath, form, &out); err != nil {
		return ValidationResponse{}, err
	}
	return out, nil
}

// VerifyIPN はwebhook payloadのval_idが実在する成功済みtransactionか確かめる。
// webhookは敵対的な入力がくる前提なのでどんな不備でもerrorにせずfalseで返す
func (c *Client) VerifyIPN(ctx context.Context, payload map[string]string) bool {
	valID := payload["val_id"]
	if valID == "" {
		return false
	}

	validation, err := c.Validate(ctx, valID, payload["store_id"], payload["store_passwd"])
	if err != nil {
		return false
	}

	return ClassifyStatus(validation.Status) == BucketSuccessful
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sslcommerz: unexpected http status %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func defaultIfEmpty(v string, def string) string {
	if v == "" {
		return def
	}
	return v
}
