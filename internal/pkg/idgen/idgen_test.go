package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablekeeper/combat-engine/internal/pkg/idgen"
)

func TestPrefixedGeneratorFormat(t *testing.T) {
	gen := idgen.NewPrefixed("combat")

	id := gen.Generate()
	assert.True(t, strings.HasPrefix(id, "combat_"))

	// prefix_timestamp_random
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.NotEmpty(t, parts[1])
	assert.NotEmpty(t, parts[2])
}

func TestSequentialGeneratorCounts(t *testing.T) {
	gen := idgen.NewSequential("test")

	assert.Equal(t, "test_1", gen.Generate())
	assert.Equal(t, "test_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUIDGeneratorProducesValidUUIDs(t *testing.T) {
	gen := idgen.NewUUID("combat")

	id := gen.Generate()
	require.True(t, strings.HasPrefix(id, "combat_"))

	_, err := uuid.Parse(strings.TrimPrefix(id, "combat_"))
	require.NoError(t, err)

	bare := idgen.NewUUID("")
	_, err = uuid.Parse(bare.Generate())
	require.NoError(t, err)

	assert.NotEqual(t, gen.Generate(), gen.Generate())
}
