package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

func TestCreateTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/snap/v1/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "test-server-key" {
			t.Errorf("expected server key as basic auth user, got %q", user)
		}

		var body struct {
			TransactionDetails struct {
				OrderID     string  `json:"order_id"`
				GrossAmount float64 `json:"gross_amount"`
			} `json:"transaction_details"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.TransactionDetails.OrderID != "ORDER-42" {
			t.Errorf("unexpected order id %q", body.TransactionDetails.OrderID)
		}
		if body.TransactionDetails.GrossAmount != 68000 {
			t.Errorf("unexpected gross amount %v", body.TransactionDetails.GrossAmount)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"token":        "snap-token-abc",
			"redirect_url": "https://pay.example/redirect/abc",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, ServerKey: "test-server-key"})
	resp, err := client.CreateTransaction(context.Background(), TransactionRequest{
		OrderID:     "ORDER-42",
		GrossAmount: 68000,
		Customer:    "Budi",
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	if resp.Token != "snap-token-abc" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	if resp.RedirectURL != "https://pay.example/redirect/abc" {
		t.Fatalf("unexpected redirect url %q", resp.RedirectURL)
	}
}

func TestCreateTransactionUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, ServerKey: "wrong-key"})
	_, err := client.CreateTransaction(context.Background(), TransactionRequest{
		OrderID:     "ORDER-1",
		GrossAmount: 1000,
	})
	if apperr.KindOf(err) != apperr.KindUpstreamPayment {
		t.Fatalf("expected upstream payment error, got %v", err)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused", ServerKey: "k"})

	if _, err := client.CreateTransaction(context.Background(), TransactionRequest{GrossAmount: 10}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing order id, got %v", err)
	}
	if _, err := client.CreateTransaction(context.Background(), TransactionRequest{OrderID: "ORDER-1"}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestSignature(t *testing.T) {
	client := NewClient(Config{ServerKey: "secret"})

	sum := sha512.Sum512([]byte("ORDER-7" + "200" + "68000.00" + "secret"))
	want := hex.EncodeToString(sum[:])

	if got := client.Signature("ORDER-7", "200", "68000.00"); got != want {
		t.Fatalf("signature mismatch:\n got %s\nwant %s", got, want)
	}
	if !client.VerifySignature("ORDER-7", "200", "68000.00", want) {
		t.Fatalf("valid signature rejected")
	}
	if client.VerifySignature("ORDER-7", "200", "68000.00", "deadbeef") {
		t.Fatalf("forged signature accepted")
	}
}
