package helper

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateScanCodeFormat(t *testing.T) {
	code := GenerateScanCode("Matematika", "5", "Monday", "08:00")
	require.Len(t, code, 16)

	_, err := hex.DecodeString(code)
	require.NoError(t, err, "kode scan harus hex murni")
}

func TestGenerateScanCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateScanCode("Matematika", "5")
		require.False(t, seen[code], "kode scan duplikat: %s", code)
		seen[code] = true
	}
}

func TestGenerateResetToken(t *testing.T) {
	tok, err := GenerateResetToken()
	require.NoError(t, err)
	require.Len(t, tok, 64)

	other, err := GenerateResetToken()
	require.NoError(t, err)
	require.NotEqual(t, tok, other)
}
