package app

import (
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSetRoundTrip(t *testing.T) {
	models := []arbiter.Model{
		arbiter.Pair([]byte("clerks:a"), []byte("first")),
		arbiter.Pair([]byte("clerks:b"), []byte("second")),
	}

	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	got, err := JoinResults(&k, &v)
	require.NoError(t, err)
	assert.Equal(t, models, got)

	_, err = JoinResults(&k, &ResultSet{})
	assert.Error(t, err)
}

func TestUnmarshalOneResult(t *testing.T) {
	var got ResultSet

	// the first value is itself a result set with no entries
	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	wrapped, err := (&ResultSet{Results: [][]byte{empty}}).Marshal()
	require.NoError(t, err)
	require.NoError(t, UnmarshalOneResult(wrapped, &got))
	assert.Empty(t, got.Results)

	// no results leaves the target untouched
	none, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	got = ResultSet{Results: [][]byte{[]byte("kept")}}
	require.NoError(t, UnmarshalOneResult(none, &got))
	assert.Equal(t, [][]byte{[]byte("kept")}, got.Results)
}
