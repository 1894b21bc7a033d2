package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariablesString(t *testing.T) {
	vars := Variables{"leadName": "Jane", "score": 85}

	assert.Equal(t, "Jane", vars.String("leadName"))
	assert.Equal(t, "", vars.String("score"))
	assert.Equal(t, "", vars.String("missing"))
}

func TestVariablesMap(t *testing.T) {
	vars := Variables{
		"nested":  map[string]any{"a": 1},
		"typed":   Variables{"b": 2},
		"scalar":  "x",
	}

	assert.Equal(t, Variables{"a": 1}, vars.Map("nested"))
	assert.Equal(t, Variables{"b": 2}, vars.Map("typed"))
	assert.Nil(t, vars.Map("scalar"))
	assert.Nil(t, vars.Map("missing"))
}

func TestLeadValidate(t *testing.T) {
	tests := []struct {
		name    string
		lead    Lead
		wantErr string
	}{
		{"valid", Lead{ID: "1", Name: "Jane", Status: LeadStatusProcessing}, ""},
		{"missing id", Lead{Name: "Jane", Status: LeadStatusProcessing}, "ID"},
		{"missing name", Lead{ID: "1", Status: LeadStatusProcessing}, "name"},
		{"missing status", Lead{ID: "1", Name: "Jane"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
