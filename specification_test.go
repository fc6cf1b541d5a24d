package rankmdx_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/rankmdx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecifications(t *testing.T) {
	t.Parallel()

	t.Run("object keeps key order", func(t *testing.T) {
		t.Parallel()

		specs, err := rankmdx.ParseSpecifications([]byte(`{"Potencia":"1500 W","Capacidad":"5,5 L","Apto lavavajillas":true}`))

		require.NoError(t, err)
		assert.Equal(t, rankmdx.Specifications{
			{Label: "Potencia", Value: "1500 W"},
			{Label: "Capacidad", Value: "5,5 L"},
			{Label: "Apto lavavajillas", Value: "Sí"},
		}, specs)
	})

	t.Run("list of name value pairs", func(t *testing.T) {
		t.Parallel()

		specs, err := rankmdx.ParseSpecifications([]byte(`[{"name":"Potencia","value":"1500 W"},{"label":"Peso","value":3.2}]`))

		require.NoError(t, err)
		assert.Equal(t, rankmdx.Specifications{
			{Label: "Potencia", Value: "1500 W"},
			{Label: "Peso", Value: "3.2"},
		}, specs)
	})

	t.Run("both shapes normalize identically", func(t *testing.T) {
		t.Parallel()

		a, err := rankmdx.ParseSpecifications([]byte(`{"Potencia":"1500 W","Peso":"3 kg"}`))
		require.NoError(t, err)
		b, err := rankmdx.ParseSpecifications([]byte(`[{"name":"Potencia","value":"1500 W"},{"name":"Peso","value":"3 kg"}]`))
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("nested objects are flattened", func(t *testing.T) {
		t.Parallel()

		specs, err := rankmdx.ParseSpecifications([]byte(`{"Dimensiones":{"Alto":"30 cm","Ancho":"25 cm"},"Colores":["negro","blanco"]}`))

		require.NoError(t, err)
		assert.Equal(t, rankmdx.Specifications{
			{Label: "Dimensiones / Alto", Value: "30 cm"},
			{Label: "Dimensiones / Ancho", Value: "25 cm"},
			{Label: "Colores", Value: "negro, blanco"},
		}, specs)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{``, `null`, `{}`, `[]`} {
			specs, err := rankmdx.ParseSpecifications([]byte(in))
			require.NoError(t, err)
			assert.Nil(t, specs, in)
		}
	})

	t.Run("unrecognized shapes are invalid", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{`"1500 W"`, `42`, `["a","b"]`, `[{"value":"x"}]`} {
			_, err := rankmdx.ParseSpecifications([]byte(in))
			assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(err), in)
		}
	})
}

func TestSpecifications_JSON(t *testing.T) {
	t.Parallel()

	specs := rankmdx.Specifications{
		{Label: "Zona", Value: "Cocina"},
		{Label: "Alto", Value: "30 cm"},
	}

	data, err := json.Marshal(specs)
	require.NoError(t, err)
	assert.Equal(t, `{"Zona":"Cocina","Alto":"30 cm"}`, string(data))

	var got rankmdx.Specifications
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, specs, got)

	first, ok := got.First()
	require.True(t, ok)
	assert.Equal(t, "Zona", first.Label)
}
