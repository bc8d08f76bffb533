package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfeed/core"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := core.Record{
		"title":  core.String("Go"),
		"active": core.Bool(true),
		"pages":  core.Int32(312),
		"bytes":  core.Int64(8589934592),
		"price":  core.Float64(9.99),
		"tags":   core.List(core.String("a"), core.Int32(1), core.Bool(false)),
	}

	data := MarshalRecord(rec)
	got, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRecordRoundTrip_Empty(t *testing.T) {
	data := MarshalRecord(core.Record{})
	got, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarshalRecord_Deterministic(t *testing.T) {
	rec := core.Record{
		"b": core.String("2"),
		"a": core.String("1"),
		"c": core.String("3"),
	}

	first := MarshalRecord(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalRecord(rec))
	}
}

func TestUnmarshalRecord_Truncated(t *testing.T) {
	rec := core.Record{"name": core.String("truncate me")}
	data := MarshalRecord(rec)

	_, err := UnmarshalRecord(data[:len(data)-3])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestUnmarshalRecord_UnknownKind(t *testing.T) {
	rec := core.Record{"": core.Value{Kind: core.Kind(99)}}
	data := MarshalRecord(rec)

	_, err := UnmarshalRecord(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestSequenceRoundTrip(t *testing.T) {
	for _, seq := range []uint64{0, 1, 255, 1 << 20, 1<<63 - 1} {
		data := MarshalSequence(seq)
		got, err := UnmarshalSequence(data)
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}
