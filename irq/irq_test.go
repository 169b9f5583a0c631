package irq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	require.NoError(t, Claim("claim-pin", "mpu"))
	require.NoError(t, Claim("claim-pin", "mpu"))
	err := Claim("claim-pin", "baro")
	assert.ErrorIs(t, err, ErrPinInUse)
	owner, ok := Owner("claim-pin")
	assert.True(t, ok)
	assert.Equal(t, "mpu", owner)
}

func TestRelease(t *testing.T) {
	require.NoError(t, Claim("release-pin", "mpu"))
	release("release-pin", "baro")
	_, ok := Owner("release-pin")
	assert.True(t, ok)
	release("release-pin", "mpu")
	_, ok = Owner("release-pin")
	assert.False(t, ok)
}
