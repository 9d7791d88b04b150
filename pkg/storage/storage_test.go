package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptKey(t *testing.T) {
	userID := uuid.New()

	key := GenerateReceiptKey(userID, "receipt.jpg")

	assert.True(t, strings.HasPrefix(key, "users/"+userID.String()+"/receipts/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	// Keys are unique per call even for the same filename
	require.NotEqual(t, key, GenerateReceiptKey(userID, "receipt.jpg"))
}

func TestValidateMimeType(t *testing.T) {
	allowed := []string{"image/*", "application/pdf"}

	assert.True(t, ValidateMimeType("image/jpeg", allowed))
	assert.True(t, ValidateMimeType("IMAGE/PNG", allowed))
	assert.True(t, ValidateMimeType("application/pdf", allowed))
	assert.False(t, ValidateMimeType("text/plain", allowed))
	assert.False(t, ValidateMimeType("application/zip", allowed))

	// Empty allow-list accepts anything
	assert.True(t, ValidateMimeType("text/plain", nil))
}

func TestGetMimeTypeFromExtension(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetMimeTypeFromExtension("receipt.JPG"))
	assert.Equal(t, "application/pdf", GetMimeTypeFromExtension("invoice.pdf"))
	assert.Equal(t, "application/octet-stream", GetMimeTypeFromExtension("notes.txt"))
}
