package invoice

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcutil"
)

// Encoder produces the opaque invoice string handed to the payer's wallet
type Encoder interface {
	Encode(amount int64, paymentID string) (string, error)
}

var payloadEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// SimulatedEncoder stands in for a real Lightning node. It carries a
// process-lifetime node key and emits payloads that look like bolt11
// strings but are not signed invoices.
type SimulatedEncoder struct {
	key *btcec.PrivateKey
}

func NewSimulatedEncoder() (*SimulatedEncoder, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generating node key: %v", err)
	}
	return &SimulatedEncoder{key: key}, nil
}

func (e *SimulatedEncoder) NodeID() string {
	return hex.EncodeToString(e.key.PubKey().SerializeCompressed())
}

func (e *SimulatedEncoder) Encode(amount int64, paymentID string) (string, error) {
	memo := fmt.Sprintf("Donation of %s", btcutil.Amount(amount).String())
	data := fmt.Sprintf("%d:%s:%s:%s", amount, paymentID, e.NodeID(), memo)
	return "lnsim1" + strings.ToLower(payloadEncoding.EncodeToString([]byte(data))), nil
}
