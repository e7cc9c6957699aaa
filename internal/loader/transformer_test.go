package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
)

func TestApplyTransformation(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		action config.TransformationAction
		want   string
	}{
		{"trim", "  food ", config.TransformationAction{Type: "trim"}, "food"},
		{"uppercase", "food", config.TransformationAction{Type: "uppercase"}, "FOOD"},
		{"lowercase", "FOOD", config.TransformationAction{Type: "lowercase"}, "food"},
		{"title", "casa e lar", config.TransformationAction{Type: "title"}, "Casa E Lar"},
		{"replace", "a_b_c", config.TransformationAction{Type: "replace", Find: "_", Value: " "}, "a b c"},
		{"lookup exact", "Mercado", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"Mercado": "food", "MERCADO": "other"}}, "food"},
		{"lookup fold", "mercado", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"MERCADO": "food"}}, "food"},
		{"lookup miss", "rent", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"MERCADO": "food"}}, "rent"},
		{"default blank", " ", config.TransformationAction{Type: "default", Value: "other"}, "other"},
		{"default set", "food", config.TransformationAction{Type: "default", Value: "other"}, "food"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTransformation(tt.value, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyTransformation_Errors(t *testing.T) {
	_, err := ApplyTransformation("x", config.TransformationAction{Type: "replace"})
	assert.ErrorContains(t, err, "requires 'find'")

	_, err = ApplyTransformation("x", config.TransformationAction{Type: "shout"})
	assert.ErrorContains(t, err, "unknown transformation type")
}

func TestTransformer_Apply(t *testing.T) {
	tr := NewTransformer([]config.TransformationRule{
		{Field: "categoria", Actions: []config.TransformationAction{{Type: "trim"}, {Type: "lowercase"}}},
		{Field: "missing", Actions: []config.TransformationAction{{Type: "uppercase"}}},
	})

	fields := map[string]string{"categoria": " FOOD ", "descricao": " keep "}
	require.NoError(t, tr.Apply(fields))

	assert.Equal(t, "food", fields["categoria"])
	assert.Equal(t, " keep ", fields["descricao"])
	_, added := fields["missing"]
	assert.False(t, added)
}
