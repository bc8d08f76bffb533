package docfeed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenIngestAndCount(t *testing.T) {
	ix, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		ix.Close()
	})

	pipeline, err := ix.NewPipeline()
	require.NoError(t, err)

	ctx := context.Background()
	count, err := pipeline.IngestJSON(ctx, "books", `[{"id": 1}, {"id": 2}]`)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := ix.Reader().CountDocuments(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
