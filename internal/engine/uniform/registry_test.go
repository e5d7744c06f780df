package uniform

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	cam, err := r.Register("Camera", []Field{{Name: "proj", Kind: Mat4}, {Name: "view", Kind: Mat4}})
	require.NoError(t, err)
	assert.Equal(t, uint32(128), cam.Plan().TotalSize())
	assert.NotEqual(t, uuid.Nil, cam.Handle)

	light, err := r.Register("Light", []Field{{Name: "dir", Kind: Vec3}})
	require.NoError(t, err)
	assert.NotEqual(t, cam.Handle, light.Handle)

	got, err := r.Lookup("Camera")
	require.NoError(t, err)
	assert.Same(t, cam, got)

	byID, ok := r.ByHandle(light.Handle)
	require.True(t, ok)
	assert.Same(t, light, byID)

	assert.Equal(t, []string{"Camera", "Light"}, r.Names())

	_, err = r.Register("Camera", []Field{{Name: "x", Kind: Scalar}})
	assert.ErrorIs(t, err, ErrDuplicateBlock)

	_, err = r.Register("Bad", []Field{{Name: "x", Kind: Scalar}, {Name: "x", Kind: Scalar}})
	assert.ErrorIs(t, err, ErrDuplicateField)

	r.Remove("Camera")
	_, err = r.Lookup("Camera")
	assert.ErrorIs(t, err, ErrUnknownBlock)
	_, ok = r.ByHandle(cam.Handle)
	assert.False(t, ok)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry(nil)
	b := NewRegistry(nil)

	_, err := a.Register("Scene", []Field{{Name: "t", Kind: Scalar}})
	require.NoError(t, err)

	_, err = b.Lookup("Scene")
	assert.ErrorIs(t, err, ErrUnknownBlock)
	_, err = b.Register("Scene", []Field{{Name: "t", Kind: Scalar}})
	assert.NoError(t, err)
}
