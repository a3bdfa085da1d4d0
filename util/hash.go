package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SymbolID creates a deterministic identifier for a symbol from its file,
// name and declaration line. Stable across passes as long as the symbol
// does not move.
func SymbolID(filePath, symbolName string, line int) string {
	input := fmt.Sprintf("%s:%s:%d", filePath, symbolName, line)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
