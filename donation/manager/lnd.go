// payment oracle backed by an LND node's REST api

package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// LNDOracle looks invoices up on an LND node over REST. Transport and node
// failures are returned as errors, which CheckStatus surfaces as
// ErrOracleUnavailable so they are never mistaken for "not yet paid".
type LNDOracle struct {
	baseURL  string
	macaroon string // hex-encoded readonly macaroon
	client   *http.Client
}

func NewLNDOracle(baseURL, macaroon string) *LNDOracle {
	return &LNDOracle{
		baseURL:  baseURL,
		macaroon: macaroon,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type lndInvoice struct {
	Settled    bool   `json:"settled"`
	SettleDate string `json:"settle_date"` // unix seconds, as a string
	State      string `json:"state"`
}

func (o *LNDOracle) IsPaid(ctx context.Context, paymentID string) (Report, error) {
	url := fmt.Sprintf("%s/v1/invoice/%s", o.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Report{}, err
	}
	if o.macaroon != "" {
		req.Header.Set("Grpc-Metadata-macaroon", o.macaroon)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()

	// the node does not know this hash: not paid, but not an oracle failure
	if resp.StatusCode == http.StatusNotFound {
		return Report{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("lnd returned %s", resp.Status)
	}

	var inv lndInvoice
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		return Report{}, err
	}

	if !inv.Settled && inv.State != "SETTLED" {
		return Report{}, nil
	}

	report := Report{Paid: true}
	if secs, err := strconv.ParseInt(inv.SettleDate, 10, 64); err == nil && secs > 0 {
		report.PaidAt = time.Unix(secs, 0)
	}
	return report, nil
}
