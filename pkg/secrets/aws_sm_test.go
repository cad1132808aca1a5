package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestDecodeSecretString(t *testing.T) {
	got, err := decodeSecretString("pve/lab", aws.String(`{"username":"api","password":"pw"}`))
	require.NoError(t, err)
	assert.Equal(t, "api", got["username"])
	assert.Equal(t, "pw", got["password"])
}

func TestDecodeSecretString_BinaryOnlySecret(t *testing.T) {
	// A binary-only secret has no SecretString; that must surface as an
	// error, not a nil dereference.
	_, err := decodeSecretString("pve/lab", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret format")
}

func TestDecodeSecretString_NotJSON(t *testing.T) {
	_, err := decodeSecretString("pve/lab", aws.String("not-json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret format")
}
