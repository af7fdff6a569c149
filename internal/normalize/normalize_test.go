package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		ok       bool
	}{
		{name: "price with spaces and currency", text: "15 500 $", expected: 15500, ok: true},
		{name: "plain digits", text: "8200", expected: 8200, ok: true},
		{name: "noise around digits", text: "ціна: 1 234 грн.", expected: 1234, ok: true},
		{name: "empty", text: "", ok: false},
		{name: "no digits", text: "договірна", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Price(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestOdometer(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		ok       bool
	}{
		{name: "thousand marker", text: "95 тис. км", expected: 95000, ok: true},
		{name: "thousand marker upper case", text: "12 ТИС. КМ", expected: 12000, ok: true},
		{name: "no marker", text: "120000 км", expected: 120000, ok: true},
		{name: "digits only", text: "42", expected: 42, ok: true},
		{name: "empty", text: "", ok: false},
		{name: "marker without digits", text: "тис. км", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Odometer(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestPhotoCount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		ok       bool
	}{
		{name: "gallery caption", text: "Фото 1 з 19", expected: 19, ok: true},
		{name: "trailing digits with whitespace", text: "1 of 7  ", expected: 7, ok: true},
		{name: "no trailing digits", text: "19 photos total", ok: false},
		{name: "empty", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := PhotoCount(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int64
		ok       bool
	}{
		{name: "ten digits gets 38 prefix", text: "(063) 213 44 11", expected: 380632134411, ok: true},
		{name: "nine digits gets 380 prefix", text: "63 213 44 11", expected: 380632134411, ok: true},
		{name: "full number passes through", text: "+380632134411", expected: 380632134411, ok: true},
		{name: "other length unprefixed", text: "12345", expected: 12345, ok: true},
		{name: "empty", text: "", ok: false},
		{name: "no digits", text: "показати", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Phone(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}
