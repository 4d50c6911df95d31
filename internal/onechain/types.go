package onechain

import "encoding/json"

// TransactionBytes is the unsigned BCS transaction returned by the unsafe_* builders.
type TransactionBytes struct {
	TxBytes      string            `json:"txBytes"`
	Gas          []ObjectReference `json:"gas"`
	InputObjects []json.RawMessage `json:"inputObjects"`
}

type ObjectReference struct {
	ObjectId string `json:"objectId"`
	Version  any    `json:"version"`
	Digest   string `json:"digest"`
}

// ResponseOptions selects which parts of a transaction block the node returns.
type ResponseOptions struct {
	ShowInput          bool `json:"showInput,omitempty"`
	ShowRawInput       bool `json:"showRawInput,omitempty"`
	ShowEffects        bool `json:"showEffects,omitempty"`
	ShowEvents         bool `json:"showEvents,omitempty"`
	ShowObjectChanges  bool `json:"showObjectChanges,omitempty"`
	ShowBalanceChanges bool `json:"showBalanceChanges,omitempty"`
}

// EffectsAndChanges is the option set used everywhere object discovery is needed.
var EffectsAndChanges = ResponseOptions{ShowEffects: true, ShowObjectChanges: true}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type TransactionEffects struct {
	Status ExecutionStatus `json:"status"`
}

// ObjectChange is one entry of objectChanges. Created and mutated entries carry
// objectId and objectType; published entries carry packageId and modules.
type ObjectChange struct {
	Type       string   `json:"type"`
	Sender     string   `json:"sender,omitempty"`
	ObjectType string   `json:"objectType,omitempty"`
	ObjectId   string   `json:"objectId,omitempty"`
	PackageId  string   `json:"packageId,omitempty"`
	Modules    []string `json:"modules,omitempty"`
	Version    any      `json:"version,omitempty"`
	Digest     string   `json:"digest,omitempty"`
}

// TransactionBlockResponse is the subset of a transaction block this module reads.
type TransactionBlockResponse struct {
	Digest        string              `json:"digest"`
	Effects       *TransactionEffects `json:"effects,omitempty"`
	ObjectChanges []ObjectChange      `json:"objectChanges,omitempty"`
	Checkpoint    string              `json:"checkpoint,omitempty"`
	TimestampMs   string              `json:"timestampMs,omitempty"`
}

// Succeeded is true when effects are present and report success.
func (r *TransactionBlockResponse) Succeeded() bool {
	return r.Effects != nil && r.Effects.Status.Status == "success"
}

type ObjectData struct {
	ObjectId string `json:"objectId"`
	Version  string `json:"version"`
	Digest   string `json:"digest"`
	Type     string `json:"type,omitempty"`
	Owner    any    `json:"owner,omitempty"`
}

type ObjectResponse struct {
	Data  *ObjectData     `json:"data,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`
}

type FaucetCoin struct {
	Amount           uint64 `json:"amount"`
	Id               string `json:"id"`
	TransferTxDigest string `json:"transferTxDigest"`
}

type FaucetResponse struct {
	TransferredGasObjects []FaucetCoin `json:"transferredGasObjects"`
	Error                 *string      `json:"error"`
}
