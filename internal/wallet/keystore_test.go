package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testSeed(b byte) []byte {
	return bytes.Repeat([]byte{b}, ed25519.SeedSize)
}

func keystoreEntry(seed []byte) string {
	return base64.StdEncoding.EncodeToString(append([]byte{ed25519Flag}, seed...))
}

func TestParseKeystoreEntry(t *testing.T) {
	kp, err := ParseKeystoreEntry(keystoreEntry(testSeed(7)))
	if err != nil {
		t.Fatalf("ParseKeystoreEntry failed: %v", err)
	}

	expected := ed25519.NewKeyFromSeed(testSeed(7)).Public().(ed25519.PublicKey)
	if !bytes.Equal(kp.PublicKey(), expected) {
		t.Error("Public key does not match seed")
	}

	tests := []struct {
		name  string
		entry string
	}{
		{"not base64", "!!!"},
		{"short", base64.StdEncoding.EncodeToString([]byte{0, 1, 2})},
		{"secp256k1 flag", base64.StdEncoding.EncodeToString(append([]byte{0x01}, testSeed(1)...))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseKeystoreEntry(tt.entry); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestDeriveAddress(t *testing.T) {
	kp, err := KeypairFromSeed(testSeed(1))
	if err != nil {
		t.Fatalf("KeypairFromSeed failed: %v", err)
	}

	address := kp.Address()
	if !strings.HasPrefix(address, "0x") || len(address) != 66 {
		t.Errorf("Expected 32 byte hex address, got %s", address)
	}
	if address != DeriveAddress(kp.PublicKey()) {
		t.Error("Address must be stable")
	}

	other, _ := KeypairFromSeed(testSeed(2))
	if other.Address() == address {
		t.Error("Different keys must derive different addresses")
	}
}

func TestSignTransaction_Verifies(t *testing.T) {
	kp, _ := KeypairFromSeed(testSeed(3))
	txBytes := []byte("transaction-data")

	serialized, err := kp.SignTransaction(base64.StdEncoding.EncodeToString(txBytes))
	if err != nil {
		t.Fatalf("SignTransaction failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		t.Fatalf("Signature is not base64: %v", err)
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		t.Fatalf("Unexpected serialized signature length %d", len(raw))
	}
	if raw[0] != ed25519Flag {
		t.Errorf("Expected ed25519 flag, got 0x%02x", raw[0])
	}

	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])
	digest := SigningDigest(txBytes)
	if !ed25519.Verify(pub, digest[:], sig) {
		t.Error("Signature does not verify over the intent digest")
	}
}

func TestLoadKeypair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.keystore")
	entries := []string{keystoreEntry(testSeed(1)), keystoreEntry(testSeed(2))}
	data, _ := json.Marshal(entries)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write keystore: %v", err)
	}

	kp, err := LoadKeypair(path, 1)
	if err != nil {
		t.Fatalf("LoadKeypair failed: %v", err)
	}
	expected, _ := KeypairFromSeed(testSeed(2))
	if kp.Address() != expected.Address() {
		t.Errorf("Expected second key, got %s", kp.Address())
	}

	if _, err := LoadKeypair(path, 5); err == nil {
		t.Error("Expected out of range error")
	}
	if _, err := LoadKeypair(filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Error("Expected error for missing keystore")
	}
}

func TestKeystoreWallet_RejectsForeignAccount(t *testing.T) {
	kp, _ := KeypairFromSeed(testSeed(4))
	w := NewKeystoreWallet("OneWallet", kp)

	account, err := w.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if account.Address != kp.Address() {
		t.Errorf("Expected %s, got %s", kp.Address(), account.Address)
	}

	txBytes := base64.StdEncoding.EncodeToString([]byte("tx"))
	if _, err := w.SignTransaction(context.Background(), account, txBytes); err != nil {
		t.Errorf("Expected signing to succeed, got %v", err)
	}
	if _, err := w.SignTransaction(context.Background(), Account{Address: "0xother"}, txBytes); err == nil {
		t.Error("Expected error signing for a foreign account")
	}
}
