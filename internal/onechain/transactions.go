package onechain

import (
	"errors"
	"fmt"
	"math/big"

	"anime-vault-go/internal/models"

	"github.com/shopspring/decimal"
)

const (
	FunctionMint     = "mint_nft"
	FunctionList     = "list_for_sale"
	FunctionPurchase = "purchase_listed_nft"
)

var (
	ErrNoImage               = errors.New("no image provided, upload an image first")
	ErrContractNotConfigured = errors.New("contract not configured, deploy the package first")
)

// ArgumentKind tells the RPC how to interpret a call argument.
type ArgumentKind int

const (
	ArgObject ArgumentKind = iota
	ArgString
	ArgU256
)

// Argument is one positional argument of a Move call.
type Argument struct {
	Kind  ArgumentKind
	Value string
}

func ObjectArg(id string) Argument { return Argument{Kind: ArgObject, Value: id} }

func StringArg(s string) Argument { return Argument{Kind: ArgString, Value: s} }

func U256Arg(v *big.Int) Argument { return Argument{Kind: ArgU256, Value: v.String()} }

// rpcValue is the JSON form accepted by unsafe_moveCall. Object ids, strings
// and u256 values (as base-10 strings) all travel as JSON strings.
func (a Argument) rpcValue() any {
	return a.Value
}

// Transaction is an unsigned single-call programmable transaction.
type Transaction struct {
	PackageId     string
	Module        string
	Function      string
	TypeArguments []string
	Arguments     []Argument
	GasBudget     uint64
}

func (t *Transaction) Target() string {
	return fmt.Sprintf("%s::%s::%s", t.PackageId, t.Module, t.Function)
}

func newMoveCall(contract models.ContractConfig, function string, args ...Argument) *Transaction {
	return &Transaction{
		PackageId:     contract.PackageId,
		Module:        contract.Module,
		Function:      function,
		TypeArguments: []string{},
		Arguments:     args,
	}
}

// NewMintTransaction builds mint_nft(url, nft_count, land_registry, land_registry_address).
func NewMintTransaction(contract models.ContractConfig, imageURL string) (*Transaction, error) {
	if imageURL == "" {
		return nil, ErrNoImage
	}
	if !contract.Configured() {
		return nil, ErrContractNotConfigured
	}

	return newMoveCall(contract, FunctionMint,
		StringArg(imageURL),
		ObjectArg(contract.NftCountId),
		ObjectArg(contract.LandRegistryId),
		ObjectArg(contract.LandRegistryAddressId),
	), nil
}

// NewListForSaleTransaction builds list_for_sale(nft, price) with the price in MIST.
func NewListForSaleTransaction(contract models.ContractConfig, nftId string, price decimal.Decimal) (*Transaction, error) {
	if nftId == "" {
		return nil, fmt.Errorf("nft id cannot be empty")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if contract.PackageId == "" || contract.Module == "" {
		return nil, ErrContractNotConfigured
	}

	return newMoveCall(contract, FunctionList,
		ObjectArg(nftId),
		U256Arg(ToSmallestUnit(price)),
	), nil
}

// NewPurchaseTransaction builds purchase_listed_nft(listing).
func NewPurchaseTransaction(contract models.ContractConfig, listingId string) (*Transaction, error) {
	if listingId == "" {
		return nil, fmt.Errorf("listing id cannot be empty")
	}
	if contract.PackageId == "" || contract.Module == "" {
		return nil, ErrContractNotConfigured
	}

	return newMoveCall(contract, FunctionPurchase, ObjectArg(listingId)), nil
}
