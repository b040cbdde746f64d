package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryCodeByCountry(t *testing.T) {
	tests := []struct {
		country string
		code    string
	}{
		{"United States of America", "US"},
		{"Ireland", "IE"},
		{"Irelnd", "IE"},
		{"Germny", "DE"},
		{"Frnce", "FR"},
		{"GB", "GB"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.code, CountryCodeByCountry(tt.country))
		})
	}
}

func TestCountryByCountryCode(t *testing.T) {
	assert.Equal(t, "United States of America", CountryByCountryCode("US"))
	assert.Equal(t, "Ireland", CountryByCountryCode("IE"))
	assert.Empty(t, CountryByCountryCode(""))
	assert.Empty(t, CountryByCountryCode("NOPE"))
}

func TestAddressFillsCountryFields(t *testing.T) {
	a := &Address{}
	a.SetCountry("Ireland")
	assert.Equal(t, "Ireland", a.Country())
	assert.Equal(t, "IE", a.CountryCode())

	b := &Address{}
	b.SetCountryCode("US")
	assert.Equal(t, "United States of America", b.Country())

	c := &Address{}
	c.SetCountryCode("CA")
	c.SetCountry("Canada")
	assert.Equal(t, "CA", c.CountryCode())
}

func TestAddressIsCountry(t *testing.T) {
	a := &Address{}
	assert.False(t, a.IsCountry("US"))

	a.SetCountry("United States of America")
	assert.True(t, a.IsCountry("US"))
	assert.False(t, a.IsCountry("CA"))

	b := &Address{}
	b.SetCountryCode("GB")
	assert.True(t, b.IsCountry("GB"))
}

func TestAddressState(t *testing.T) {
	a := &Address{}
	a.SetState("TX")
	assert.Equal(t, "TX", a.Province)
	assert.Equal(t, "TX", a.State())
}
