package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ID(t *testing.T) {
	reg := testRegistry()

	id, err := reg.ID("tally/a")
	require.NoError(t, err)
	assert.Equal(t, "tally/a", id.Key())

	for _, ref := range []string{"tally", "tally/", "/a", "ghost/a", "tally/nobody"} {
		_, err := reg.ID(ref)
		assert.Error(t, err, ref)
	}
}

func TestRegistry_Message(t *testing.T) {
	reg := testRegistry()

	m, err := reg.Message("Tally.forward", map[string]any{"n": 3, "to": "tally/b"})
	require.NoError(t, err)
	assert.Equal(t, forward{n: 3, to: tallyID("b")}, m)

	_, err = reg.Message("Tally.forward", map[string]any{"n": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing argument "to"`)

	_, err = reg.Message("Tally.nope", nil)
	assert.Error(t, err)

	assert.Equal(t, []string{"Tally.add", "Tally.fail", "Tally.forward"}, reg.Messages())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := testRegistry()
	assert.Panics(t, func() { reg.RegisterID("tally", nil) })
	assert.Panics(t, func() { reg.RegisterMessage("Tally.add", nil) })
}

func TestArgs(t *testing.T) {
	args := Args{reg: testRegistry(), values: map[string]any{
		"s":     "text",
		"i":     4,
		"whole": 2.0,
		"frac":  2.5,
		"ref":   "tally/x",
	}}

	s, err := args.String("s")
	require.NoError(t, err)
	assert.Equal(t, "text", s)
	_, err = args.String("i")
	assert.Error(t, err)

	i, err := args.Int("whole")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	_, err = args.Int("frac")
	assert.Error(t, err)

	f, err := args.Float("i")
	require.NoError(t, err)
	assert.Equal(t, 4.0, f)
	f, err = args.Float("frac")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)
	_, err = args.Float("s")
	assert.Error(t, err)

	id, err := args.ID("ref")
	require.NoError(t, err)
	assert.Equal(t, tallyID("x"), id)

	assert.True(t, args.Has("s"))
	assert.False(t, args.Has("missing"))
}
