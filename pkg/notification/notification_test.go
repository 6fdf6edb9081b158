package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientHash(t *testing.T) {
	h := PatientHash("12345678900", "Maria da Silva", "1950-03-12")
	assert.Len(t, h, 64)
	assert.Equal(t, h, PatientHash("12345678900", "Maria da Silva", "1950-03-12"))
	assert.NotEqual(t, h, PatientHash("12345678900", "Maria da Silva", "1950-03-13"))
}

func TestNotification_ContentHash(t *testing.T) {
	n := &Notification{PatientHash: "ab" + strings.Repeat("00", 31)}
	got, err := n.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), got[0])

	n.PatientHash = "0x" + n.PatientHash
	_, err = n.ContentHash()
	require.NoError(t, err)

	n.PatientHash = "abc"
	_, err = n.ContentHash()
	require.Error(t, err)

	n.PatientHash = "abcd"
	_, err = n.ContentHash()
	require.Error(t, err)
}
