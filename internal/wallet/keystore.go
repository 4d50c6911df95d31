package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

// ed25519Flag is the signature scheme byte prefixed to keys and signatures.
const ed25519Flag byte = 0x00

// transactionIntent prefixes transaction bytes before hashing: scope, version, app id.
var transactionIntent = []byte{0x00, 0x00, 0x00}

// Keypair is an ed25519 signing key.
type Keypair struct {
	private ed25519.PrivateKey
}

func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Keypair{private: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParseKeystoreEntry decodes one keystore entry: base64(flag || 32 byte seed).
func ParseKeystoreEntry(entry string) (*Keypair, error) {
	raw, err := base64.StdEncoding.DecodeString(entry)
	if err != nil {
		return nil, fmt.Errorf("unable to decode keystore entry: %w", err)
	}
	if len(raw) != 1+ed25519.SeedSize {
		return nil, fmt.Errorf("unexpected keystore entry length %d", len(raw))
	}
	if raw[0] != ed25519Flag {
		return nil, fmt.Errorf("unsupported key scheme flag 0x%02x, only ed25519 is supported", raw[0])
	}
	return KeypairFromSeed(raw[1:])
}

// LoadKeystore reads a keystore file, a JSON array of base64 entries.
func LoadKeystore(path string) ([]*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read keystore %s: %w", path, err)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unable to parse keystore %s: %w", path, err)
	}

	keypairs := make([]*Keypair, 0, len(entries))
	for i, entry := range entries {
		kp, err := ParseKeystoreEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("keystore entry %d: %w", i, err)
		}
		keypairs = append(keypairs, kp)
	}
	return keypairs, nil
}

// LoadKeypair returns the entry at index from a keystore file.
func LoadKeypair(path string, index int) (*Keypair, error) {
	keypairs, err := LoadKeystore(path)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(keypairs) {
		return nil, fmt.Errorf("keystore %s has %d keys, index %d out of range", path, len(keypairs), index)
	}
	return keypairs[index], nil
}

func (k *Keypair) PublicKey() ed25519.PublicKey {
	return k.private.Public().(ed25519.PublicKey)
}

func (k *Keypair) Address() string {
	return DeriveAddress(k.PublicKey())
}

// DeriveAddress is 0x + hex(blake2b-256(flag || public key)).
func DeriveAddress(pub ed25519.PublicKey) string {
	payload := make([]byte, 0, 1+len(pub))
	payload = append(payload, ed25519Flag)
	payload = append(payload, pub...)
	sum := blake2b.Sum256(payload)
	return "0x" + hex.EncodeToString(sum[:])
}

// SigningDigest is the blake2b-256 hash of the intent message for txBytes.
func SigningDigest(txBytes []byte) [32]byte {
	message := make([]byte, 0, len(transactionIntent)+len(txBytes))
	message = append(message, transactionIntent...)
	message = append(message, txBytes...)
	return blake2b.Sum256(message)
}

// SignTransaction signs base64 transaction bytes and returns the serialized
// signature base64(flag || signature || public key).
func (k *Keypair) SignTransaction(txBytes string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(txBytes)
	if err != nil {
		return "", fmt.Errorf("unable to decode transaction bytes: %w", err)
	}

	digest := SigningDigest(raw)
	signature := ed25519.Sign(k.private, digest[:])

	pub := k.PublicKey()
	serialized := make([]byte, 0, 1+len(signature)+len(pub))
	serialized = append(serialized, ed25519Flag)
	serialized = append(serialized, signature...)
	serialized = append(serialized, pub...)
	return base64.StdEncoding.EncodeToString(serialized), nil
}

// KeystoreWallet is a wallet backed by a single local key.
type KeystoreWallet struct {
	name    string
	keypair *Keypair
}

var _ Wallet = (*KeystoreWallet)(nil)

func NewKeystoreWallet(name string, keypair *Keypair) *KeystoreWallet {
	return &KeystoreWallet{name: name, keypair: keypair}
}

func (w *KeystoreWallet) Name() string {
	return w.name
}

func (w *KeystoreWallet) Connect(_ context.Context) (Account, error) {
	return Account{
		Address:   w.keypair.Address(),
		PublicKey: w.keypair.PublicKey(),
	}, nil
}

func (w *KeystoreWallet) Disconnect(_ context.Context) error {
	return nil
}

func (w *KeystoreWallet) SignTransaction(_ context.Context, account Account, txBytes string) (string, error) {
	if account.Address != w.keypair.Address() {
		return "", fmt.Errorf("account %s is not held by %s", account.Address, w.name)
	}
	return w.keypair.SignTransaction(txBytes)
}
