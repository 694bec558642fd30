package blockchain

import (
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Call is one invoke in a multicall batch, in the shape wallets accept:
// target contract, entrypoint name and the already-serialized calldata.
type Call struct {
	ContractAddress string   `json:"contractAddress"`
	Entrypoint      string   `json:"entrypoint"`
	Calldata        []string `json:"calldata"`
}

// FunctionCall is the starknet_call request object.
type FunctionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

var selectorMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// Selector returns the entrypoint selector for a function name:
// keccak256(name) truncated to its low 250 bits.
func Selector(name string) *big.Int {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(name))

	selector := new(big.Int).SetBytes(hash.Sum(nil))
	return selector.And(selector, selectorMask)
}

// ExplorerTxURL joins an explorer's transaction page prefix with a hash. An
// empty prefix or hash yields an empty URL.
func ExplorerTxURL(prefix, transactionHash string) string {
	if prefix == "" || transactionHash == "" {
		return ""
	}
	return strings.TrimRight(prefix, "/") + "/" + transactionHash
}
