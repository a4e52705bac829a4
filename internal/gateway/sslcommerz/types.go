package sslcommerz

// セッション開始リクエスト。店舗credentialはClientが足す
type InitRequest struct {
	TotalAmount float64
	Currency    string
	TranID      string

	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Address1   string
	City       string
	PostalCode string
	Country    string

	ShipName       string
	ShipAddress    string
	ShipCity       string
	ShipPostalCode string
	ShipCountry    string

	ProductName     string
	ProductCategory string
	ProductProfile  string

	//注文の主キーをそのまま往復させるopaque値
	ValueA string
}

type InitResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// validator APIの応答。金銭の移動についてはこれだけを信用する
type ValidationResponse struct {
	Status            string `json:"status"`
	TranDate          string `json:"tran_date"`
	TranID            string `json:"tran_id"`
	ValID             string `json:"val_id"`
	Amount            string `json:"amount"`
	StoreAmount       string `json:"store_amount"`
	Currency          string `json:"currency"`
	BankTranID        string `json:"bank_tran_id"`
	CardType          string `json:"card_type"`
	CardNo            string `json:"card_no"`
	CardIssuer        string `json:"card_issuer"`
	CardBrand         string `json:"card_brand"`
	CardIssuerCountry string `json:"card_issuer_country"`
	ValueA            string `json:"value_a"`
	RiskLevel         string `json:"risk_level"`
	RiskTitle         string `json:"risk_title"`
}
