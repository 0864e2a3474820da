package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryWithoutDatabase(t *testing.T) {
	r := &Resolver{}
	assert.Equal(t, "", r.Country("8.8.8.8"))
	assert.Equal(t, "", r.Country("not-an-ip"))
	assert.NoError(t, r.Close())
}

func TestCountryOnNilResolver(t *testing.T) {
	var r *Resolver
	assert.Equal(t, "", r.Country("8.8.8.8"))
	assert.NoError(t, r.Close())
}
