package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guestflow/concierge/pkg/models"
)

// credentialKeys are argument names excluded from de-duplication
// signatures: they identify the caller, not the call.
var credentialKeys = map[string]bool{
	"api_key":     true,
	"auth_token":  true,
	"credentials": true,
	"hotel_token": true,
}

// Signature computes the canonical de-duplication key for a tool call:
// the tool name plus a stable hash of its semantically-identifying
// arguments. Argument maps are serialized with sorted keys, so two calls
// collide exactly when they would perform the same external operation.
func Signature(tc models.ToolCall) string {
	identifying := make(map[string]string, len(tc.Args))
	for k, v := range tc.Args {
		if credentialKeys[strings.ToLower(k)] || v == nil {
			continue
		}
		identifying[k] = canonical(v)
	}

	// json.Marshal writes map keys in sorted order, which makes the
	// digest independent of argument declaration order.
	encoded, err := json.Marshal(identifying)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", identifying))
	}

	sum := sha256.Sum256(encoded)
	return tc.Tool + ":" + hex.EncodeToString(sum[:8])
}

// canonical renders one argument value into a stable string. Numeric
// values are normalized so 2 and 2.0 produce the same key.
func canonical(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%v", n)
	case int, int64, bool, string:
		return fmt.Sprintf("%v", n)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// signatureSet tracks attempted call signatures for one run.
type signatureSet map[string]bool

// add records a signature, returning false if it was already present.
func (s signatureSet) add(sig string) bool {
	if s[sig] {
		return false
	}
	s[sig] = true
	return true
}

// list returns the recorded signatures for handing to the re-planner.
func (s signatureSet) list() []string {
	out := make([]string, 0, len(s))
	for sig := range s {
		out = append(out, sig)
	}
	return out
}
