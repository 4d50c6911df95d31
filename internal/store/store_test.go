package store

import (
	"errors"
	"fmt"
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestNFTStoreInterfaceExists(t *testing.T) {
	_ = SaveMintedNFTParams{}
	_ = CompletePurchaseParams{}

	var _ NFTStore
}

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrDuplicateTransaction, ErrDuplicateNFT, ErrNFTNotFound} {
		wrapped := fmt.Errorf("unable to update listing: %w", sentinel)
		if !errors.Is(wrapped, sentinel) {
			t.Errorf("Expected wrapped error to match %v", sentinel)
		}
	}
	if errors.Is(ErrNFTNotFound, ErrDuplicateNFT) {
		t.Error("Expected distinct sentinel errors")
	}
}
