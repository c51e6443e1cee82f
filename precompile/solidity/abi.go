package solidity

import (
	"bytes"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// SelectorLength is the size of a function selector.
const SelectorLength = 4

// Selector returns the first four bytes of the Keccak-256 hash of a canonical
// function signature such as "requestFunds(address,uint256)".
func Selector(signature string) [SelectorLength]byte {
	var sel [SelectorLength]byte
	copy(sel[:], crypto.Keccak256([]byte(signature)))
	return sel
}

// FunctionSignature builds the canonical signature of a function from its
// name and argument types.
func FunctionSignature(name string, args ...Type) string {
	sigs := make([]string, len(args))
	for i, a := range args {
		sigs[i] = a.Signature()
	}
	return name + "(" + strings.Join(sigs, ",") + ")"
}

// ReadSelector splits call data into its selector and argument payload.
func ReadSelector(input []byte) ([SelectorLength]byte, []byte, error) {
	var sel [SelectorLength]byte
	if len(input) < SelectorLength {
		return sel, nil, decodeErr("Tried to read selector out of bounds")
	}
	copy(sel[:], input)
	return sel, input[SelectorLength:], nil
}

// revertSelector is the selector of Error(string).
var revertSelector = Selector("Error(string)")

// EncodeRevert returns the standard Error(string) revert payload understood
// by wallets and tooling.
func EncodeRevert(reason string) []byte {
	return append(revertSelector[:], Encode(String, reason)...)
}

// DecodeRevert extracts the reason from an Error(string) revert payload.
func DecodeRevert(data []byte) (string, bool) {
	if len(data) < SelectorLength || !bytes.Equal(data[:SelectorLength], revertSelector[:]) {
		return "", false
	}
	reason, err := Decode(String, data[SelectorLength:])
	if err != nil {
		return "", false
	}
	return reason, true
}
