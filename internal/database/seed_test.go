package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed_Demo(t *testing.T) {
	seed, err := ParseSeed(DemoSeed())

	require.NoError(t, err)
	assert.Len(t, seed.Products, 10)
	assert.Len(t, seed.Merchants, 3)
	for _, m := range seed.Merchants {
		for _, s := range m.Stocks {
			assert.True(t, s.Lat >= 55 && s.Lat <= 56, "lat %v", s.Lat)
			assert.True(t, s.Long >= 37 && s.Long <= 38, "long %v", s.Long)
		}
	}
}

func TestParseSeed_RejectsOutOfRangeEAN(t *testing.T) {
	for _, ean := range []string{"0", "-5", "10000000000000"} {
		_, err := ParseSeed(strings.NewReader(`
products:
  - ean: ` + ean + `
    name: Bad
`))
		assert.ErrorContains(t, err, "does not fit 13 digits", ean)
	}
}

func TestParseSeed_AcceptsLeadingZeroEAN(t *testing.T) {
	seed, err := ParseSeed(strings.NewReader(`
products:
  - ean: 12345678905
    name: Imported
`))
	require.NoError(t, err)
	require.Len(t, seed.Products, 1)
	assert.Equal(t, int64(12345678905), seed.Products[0].EAN)
}

func TestParseSeed_RejectsUnknownLineEAN(t *testing.T) {
	_, err := ParseSeed(strings.NewReader(`
products:
  - ean: 4600605000011
    name: Milk
merchants:
  - name: A
    email: a@example.com
    password: x
    stocks:
      - address: somewhere
        lines:
          - {ean: 4600605000028, price: 1, amount: 1}
`))
	assert.ErrorContains(t, err, "unknown ean")
}

func TestParseSeed_RejectsUnknownFields(t *testing.T) {
	_, err := ParseSeed(strings.NewReader(`
productz: []
`))
	assert.Error(t, err)
}

func TestGormLogLevel(t *testing.T) {
	assert.NotEqual(t, gormLogLevel("silent"), gormLogLevel("info"))
	assert.Equal(t, gormLogLevel("warn"), gormLogLevel("anything"))
}
