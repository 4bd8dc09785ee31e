package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAdminPolicyIDAllowList(t *testing.T) {
	id := uuid.New().String()
	policy := NewAdminPolicy([]string{id}, nil)

	assert.True(t, policy.IsAdmin(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: id}}))
	assert.False(t, policy.IsAdmin(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.New().String()}}))
}

func TestAdminPolicyDomainAllowList(t *testing.T) {
	policy := NewAdminPolicy(nil, []string{"courtside.example"})

	assert.True(t, policy.IsAdmin(&Claims{Email: "ops@courtside.example"}))
	assert.True(t, policy.IsAdmin(&Claims{Email: "ops@COURTSIDE.EXAMPLE"}))
	assert.False(t, policy.IsAdmin(&Claims{Email: "ops@elsewhere.example"}))
	assert.False(t, policy.IsAdmin(&Claims{Email: "no-at-sign"}))
}

func TestAdminPolicyRoleClaim(t *testing.T) {
	policy := NewAdminPolicy(nil, nil)

	assert.True(t, policy.IsAdmin(&Claims{Role: RoleAdmin}))
	assert.True(t, policy.IsAdmin(&Claims{Role: RoleSuperAdmin}))
	assert.False(t, policy.IsAdmin(&Claims{Role: "viewer"}))
	assert.False(t, policy.IsAdmin(&Claims{}))
}

func TestAdminPolicyNilClaims(t *testing.T) {
	policy := NewAdminPolicy([]string{"x"}, []string{"y"})
	assert.False(t, policy.IsAdmin(nil))
}
