package ingest

import (
	"context"

	"github.com/poiesic/docfeed/builder"
	"github.com/poiesic/docfeed/core"
	"github.com/poiesic/docfeed/storage"
)

// Pipeline turns raw payloads into records and loads them in one call.
// Each call runs synchronously; concurrent calls are uncoordinated and
// rely on whatever guarantees the store provides.
type Pipeline struct {
	json     *builder.JSONBuilder
	csv      *builder.CSVBuilder
	xml      *builder.XMLBuilder
	ingestor *Ingestor
}

// NewPipeline creates a pipeline over the given store. Options apply to
// the underlying Ingestor.
func NewPipeline(store storage.DocumentStore, opts ...Option) (*Pipeline, error) {
	ingestor, err := NewIngestor(store, opts...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		json:     builder.NewJSONBuilder(),
		csv:      builder.NewCSVBuilder(),
		xml:      builder.NewXMLBuilder(),
		ingestor: ingestor,
	}, nil
}

// IngestJSON builds records from a JSON array payload and loads them.
func (p *Pipeline) IngestJSON(ctx context.Context, collection, payload string) (int, error) {
	records, err := p.json.Build(payload)
	if err != nil {
		return 0, err
	}
	return p.ingestor.Ingest(ctx, collection, records)
}

// IngestCSV builds records from a CSV payload and loads them.
func (p *Pipeline) IngestCSV(ctx context.Context, collection, payload string) (int, error) {
	records, err := p.csv.Build(payload)
	if err != nil {
		return 0, err
	}
	return p.ingestor.Ingest(ctx, collection, records)
}

// IngestXML builds records from an XML payload and loads them.
func (p *Pipeline) IngestXML(ctx context.Context, collection, payload string) (int, error) {
	records, err := p.xml.Build(payload)
	if err != nil {
		return 0, err
	}
	return p.ingestor.Ingest(ctx, collection, records)
}

// BuildJSON returns the records a JSON payload produces, without loading.
func (p *Pipeline) BuildJSON(payload string) ([]core.Record, error) {
	return p.json.Build(payload)
}

// BuildCSV returns the records a CSV payload produces, without loading.
func (p *Pipeline) BuildCSV(payload string) ([]core.Record, error) {
	return p.csv.Build(payload)
}

// BuildXML returns the records an XML payload produces, without loading.
func (p *Pipeline) BuildXML(payload string) ([]core.Record, error) {
	return p.xml.Build(payload)
}
