package blockparam

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Latest is the tag used when no block is given
const Latest = "latest"

// DynamicBlockTags contains block tags that indicate dynamic/latest data
var DynamicBlockTags = map[string]bool{
	"latest":    true,
	"pending":   true,
	"earliest":  true,
	"safe":      true,
	"finalized": true,
}

// IsTag reports whether s is one of the well-known block tags
func IsTag(s string) bool {
	return DynamicBlockTags[strings.ToLower(s)]
}

// Normalize converts a base-10 block number into the 0x-prefixed quantity
// form expected by the node ("123" -> "0x7b"). Anything else, including tags
// and values already in hex, is returned unchanged.
func Normalize(s string) string {
	n, ok := parseDecimal(s)
	if !ok {
		return s
	}
	return hexutil.EncodeBig(n)
}

// parseDecimal parses a non-negative base-10 integer of any size.
// Surrounding whitespace and a leading '+' are tolerated.
func parseDecimal(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return nil, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, false
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return n, true
}

