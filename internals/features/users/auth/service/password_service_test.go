package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("rahasia123")
	require.NoError(t, err)
	require.NotEqual(t, "rahasia123", hashed)

	require.True(t, CheckPassword(hashed, "rahasia123"))
	require.False(t, CheckPassword(hashed, "salah"))
}

func TestDefaultStudentPassword(t *testing.T) {
	require.Equal(t, "student202401", DefaultStudentPassword("202401"))

	// hash dari password default harus bisa diverifikasi balik
	hashed, err := HashPassword(DefaultStudentPassword("202401"))
	require.NoError(t, err)
	require.True(t, CheckPassword(hashed, "student202401"))
}
