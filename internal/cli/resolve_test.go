package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

func TestResolveCompany(t *testing.T) {
	companies := []types.Company{
		{ID: "0190a1b2-0001", Name: "Acme"},
		{ID: "0190a1b2-0002", Name: "Globex"},
		{ID: "77aa0000-0003", Name: "Initech"},
		{ID: "88bb0000-0004", Name: "initech"},
		{ID: "99cc0000-0005", Name: "0190a1b2"},
	}

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{"exact id", "0190a1b2-0002", "0190a1b2-0002", nil},
		{"unique prefix", "77aa", "77aa0000-0003", nil},
		{"name any case", "GLOBEX", "0190a1b2-0002", nil},
		{"name wins over ambiguous prefix", "0190a1b2", "99cc0000-0005", nil},
		{"ambiguous prefix", "0190", "", types.ErrAmbiguous},
		{"ambiguous name", "initech", "", types.ErrAmbiguous},
		{"not found", "hooli", "", types.ErrNotFound},
		{"empty", "  ", "", types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := resolveCompany(companies, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestResolveMethod(t *testing.T) {
	methods := types.DefaultCommunicationMethods()

	m, err := resolveMethod(methods, "3")
	require.NoError(t, err)
	assert.Equal(t, "Email", m.Name)

	m, err = resolveMethod(methods, "linkedin message")
	require.NoError(t, err)
	assert.Equal(t, "2", m.ID)

	_, err = resolveMethod(methods, "fax")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
