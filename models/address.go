package models

import "strings"

const (
	significantCountryMatch = 6
	significantCodeMatch    = 3
)

var countryNamesByCode = func() map[string]string {
	m := make(map[string]string, len(countryCodesByName))
	for name, code := range countryCodesByName {
		m[code] = name
	}
	return m
}()

// Address is a billing or shipping address for the consumer. Setting the
// country fills in the country code when it is still empty, and vice versa.
type Address struct {
	Type           AddressType
	StreetAddress1 string
	StreetAddress2 string
	StreetAddress3 string
	City           string
	Province       string
	PostalCode     string
	country        string
	countryCode    string
}

func (a *Address) State() string         { return a.Province }
func (a *Address) SetState(state string) { a.Province = state }
func (a *Address) Country() string       { return a.country }
func (a *Address) CountryCode() string   { return a.countryCode }

func (a *Address) SetCountry(country string) {
	a.country = country
	if a.countryCode == "" {
		a.countryCode = CountryCodeByCountry(country)
	}
}

func (a *Address) SetCountryCode(code string) {
	a.countryCode = code
	if a.country == "" {
		a.country = CountryByCountryCode(code)
	}
}

// IsCountry reports whether the address resolves to the given ISO code.
func (a *Address) IsCountry(code string) bool {
	if a.countryCode != "" {
		return a.countryCode == code
	}
	if a.country != "" {
		if c := CountryCodeByCountry(a.country); c != "" {
			return c == code
		}
	}
	return false
}

func CountryByCountryCode(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := countryNamesByCode[code]; ok {
		return name
	}
	if len(code) > 3 {
		return ""
	}
	return fuzzyMatch(countryNamesByCode, code, significantCodeMatch)
}

func CountryCodeByCountry(country string) string {
	if country == "" {
		return ""
	}
	if code, ok := countryCodesByName[country]; ok {
		return code
	}
	if match := fuzzyMatch(countryCodesByName, country, significantCountryMatch); match != "" {
		return match
	}
	if len(country) > 3 {
		return ""
	}
	if name := fuzzyMatch(countryNamesByCode, country, significantCodeMatch); name != "" {
		return countryCodesByName[name]
	}
	return ""
}

// fuzzyMatch returns the value of the single best scoring key, or "" when the
// best score is shared or not significant.
func fuzzyMatch(dictionary map[string]string, query string, significant int) string {
	var result string
	highScore := -1
	ties := 0
	for key, value := range dictionary {
		score := fuzzyScore(key, query)
		switch {
		case score > significant && score > highScore:
			highScore = score
			result = value
			ties = 1
		case score == highScore:
			ties++
		}
	}
	if ties > 1 {
		return ""
	}
	return result
}

// fuzzyScore matches query against term in order. Each query character
// takes the next matching term character; adjacent matches score extra.
func fuzzyScore(term, query string) int {
	t := []rune(strings.ToLower(term))
	score := 0
	previous := -1
	for _, q := range strings.ToLower(query) {
		for i := previous + 1; i < len(t); i++ {
			if t[i] != q {
				continue
			}
			score++
			if previous+1 == i {
				score += 2
			}
			previous = i
			break
		}
	}
	return score
}
