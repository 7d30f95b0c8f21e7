package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour, "go-stock-pos")
	userID := uuid.New()

	token, err := m.GenerateToken(userID, "cashier@example.com", "Cashier", "CASHIER", []string{"sale:create"}, "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "CASHIER", claims.RoleCode)
	assert.Equal(t, []string{"sale:create"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("a", time.Hour, "go-stock-pos").GenerateToken(uuid.New(), "", "", "", nil, "")
	require.NoError(t, err)

	_, err = NewManager("b", time.Hour, "go-stock-pos").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", time.Minute, "go-stock-pos")
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := m.GenerateToken(uuid.New(), "", "", "", nil, "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingToken(t *testing.T) {
	_, err := NewManager("secret", time.Hour, "x").ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
