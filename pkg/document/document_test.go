package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusActual, StatusIrrelevant, StatusBanned, StatusRemoved} {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	parsed, err := ParseStatus(" banned ")
	require.NoError(t, err)
	assert.Equal(t, StatusBanned, parsed)

	_, err = ParseStatus("archived")
	assert.Error(t, err)
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestStatusYAML(t *testing.T) {
	var doc struct {
		Status Status `yaml:"status"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("status: irrelevant\n"), &doc))
	assert.Equal(t, StatusIrrelevant, doc.Status)

	assert.Error(t, yaml.Unmarshal([]byte("status: lost\n"), &doc))
}

func TestDocumentString(t *testing.T) {
	d := Document{ID: 2, Relevance: 0.5, Rating: -1}
	assert.Equal(t, "{ document_id = 2, relevance = 0.5, rating = -1 }", d.String())
}
