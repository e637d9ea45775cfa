package clinic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/core/id"
)

func TestIndexPatients(t *testing.T) {
	patients := []Patient{
		{ID: id.New(), Name: "Ali", IsAmputee: true},
		{ID: id.New(), Name: "Sara", IsPhysiotherapy: true},
	}

	idx := IndexPatients(patients)

	require.Len(t, idx, 2)
	assert.Equal(t, "Sara", idx[patients[1].ID].Name)
	assert.Same(t, &patients[0], idx[patients[0].ID])

	_, ok := idx[id.New()]
	assert.False(t, ok)
	assert.Empty(t, IndexPatients(nil))
}
