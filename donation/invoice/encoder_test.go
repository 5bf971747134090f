package invoice_test

import (
	"strings"
	"testing"

	"satsforgood/donation/invoice"
)

func TestSimulatedEncoder(t *testing.T) {
	enc, err := invoice.NewSimulatedEncoder()
	if err != nil {
		t.Fatal("Failed to create encoder:", err)
	}

	if len(enc.NodeID()) != 66 { // compressed secp256k1 pubkey, hex
		t.Error("Expected 66-char node id, got", len(enc.NodeID()))
	}

	a, err := enc.Encode(1000, "hash-a")
	if err != nil {
		t.Fatal("Encode failed:", err)
	}
	b, err := enc.Encode(1000, "hash-b")
	if err != nil {
		t.Fatal("Encode failed:", err)
	}

	if !strings.HasPrefix(a, "lnsim1") {
		t.Error("Expected lnsim1 prefix, got", a[:10])
	}
	if a == b {
		t.Error("Expected distinct payloads for distinct payment ids")
	}
}
