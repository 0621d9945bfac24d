package contentstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type award struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

func TestJSON_Value(t *testing.T) {
	v, err := JSONOf([]award{{Title: "Best Diner", Year: 2021}}).Value()
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Best Diner","year":2021}]`, v)

	v, err = JSONOf(EmptyList[award](nil)).Value()
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestJSON_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want []award
	}{
		{name: "text", src: `[{"title":"A","year":1990}]`, want: []award{{Title: "A", Year: 1990}}},
		{name: "bytes", src: []byte(`[{"title":"B"}]`), want: []award{{Title: "B"}}},
		{name: "null", src: nil, want: nil},
		{name: "empty list", src: `[]`, want: []award{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var j JSON[[]award]
			require.NoError(t, j.Scan(tt.src))
			assert.Equal(t, tt.want, j.V)
		})
	}
}

func TestJSON_ScanMalformed(t *testing.T) {
	var j JSON[map[string]string]
	err := j.Scan(`{"broken":`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedJSON)
	assert.Nil(t, j.V, "malformed input must not produce a silent empty value")

	err = j.Scan(42)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}
