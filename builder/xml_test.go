package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfeed/core"
)

func TestXMLBuilder_SingleRecord(t *testing.T) {
	b := NewXMLBuilder()

	records, err := b.Build(`<book id="1"><title>T</title></book>`)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, core.Record{
		"id_attr":    core.Int32(1),
		"book_title": core.String("T"),
	}, records[0])
}

func TestXMLBuilder_MultiRecord(t *testing.T) {
	b := NewXMLBuilder()

	payload := `<catalog version="2">
		<item sku="a1"><name>First</name></item>
		<item sku="a2"><name>Second</name></item>
		<item sku="a3"><name>Third</name></item>
	</catalog>`
	records, err := b.Build(payload)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, core.String("a1"), records[0]["sku_attr"])
	assert.Equal(t, core.String("First"), records[0]["item_name"])
	assert.Equal(t, core.String("Third"), records[2]["item_name"])

	for _, rec := range records {
		_, hasVersion := rec["version_attr"]
		assert.False(t, hasVersion, "root attributes stay with the root")
	}
}

func TestXMLBuilder_MixedContent(t *testing.T) {
	b := NewXMLBuilder()

	records, err := b.Build(`<p>Hello <b>world</b></p>`)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, core.String("Hello"), records[0]["p"])
	assert.Equal(t, core.String("world"), records[0]["p_b"])
}

func TestXMLBuilder_DeepNesting(t *testing.T) {
	b := NewXMLBuilder()

	records, err := b.Build(`<a><b><c>deep</c></b></a>`)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, core.String("deep"), records[0]["a_b_c"])
}

func TestXMLBuilder_EmptyElementsInvisible(t *testing.T) {
	b := NewXMLBuilder()

	records, err := b.Build(`<book><title>T</title><empty/><blank>   </blank></book>`)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, core.Record{"book_title": core.String("T")}, records[0])
}

func TestXMLBuilder_BlankAttributesOmitted(t *testing.T) {
	b := NewXMLBuilder()

	records, err := b.Build(`<book id="  " lang="en"><title>T</title></book>`)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, hasID := records[0]["id_attr"]
	assert.False(t, hasID)
	assert.Equal(t, core.String("en"), records[0]["lang_attr"])
}

func TestXMLBuilder_NestedAttributePrefix(t *testing.T) {
	b := NewXMLBuilder()

	records, err := b.Build(`<book><pub year="2001">P</pub></book>`)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, core.Int32(2001), records[0]["book_pub_year_attr"])
	assert.Equal(t, core.String("P"), records[0]["book_pub"])
}

func TestXMLBuilder_EmptyPayload(t *testing.T) {
	b := NewXMLBuilder()

	for _, payload := range []string{"", "   ", "\n\t"} {
		_, err := b.Build(payload)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	}
}

func TestXMLBuilder_OversizedPayload(t *testing.T) {
	b := NewXMLBuilder(WithMaxPayloadBytes(16))

	_, err := b.Build("<a>" + strings.Repeat("x", 32) + "</a>")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestXMLBuilder_Malformed(t *testing.T) {
	b := NewXMLBuilder()

	for _, payload := range []string{
		`<a><b></a>`,
		`<a>one</a><b>two</b>`,
		`no markup at all`,
		`<a>&undeclared;</a>`,
	} {
		_, err := b.Build(payload)
		assert.ErrorIs(t, err, ErrMalformedPayload, "payload %s", payload)
	}
}

func TestXMLBuilder_RejectsDoctype(t *testing.T) {
	b := NewXMLBuilder()

	payload := `<!DOCTYPE lolz [<!ENTITY lol "lol">]><a>&lol;</a>`
	_, err := b.Build(payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
