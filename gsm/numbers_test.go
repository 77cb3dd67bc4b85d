package gsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadingInt(t *testing.T) {
	patterns := []struct {
		name string
		in   string
		n    int
		ok   bool
	}{
		{"plain", "42", 42, true},
		{"trailing crlf", "18\r\n", 18, true},
		{"trailing field", "1,5,0,0\r\n", 1, true},
		{"empty", "", 0, false},
		{"no digit", "\r\n", 0, false},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			n, ok := leadingInt([]byte(p.in))
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.n, n)
		})
	}
}

func TestFieldAfterComma(t *testing.T) {
	assert.Equal(t, []byte("1\r\n"), fieldAfterComma([]byte("+CREG: 0,1\r\n")))
	assert.Nil(t, fieldAfterComma([]byte("+CGATT: 1\r\n")))
}

func TestDottedQuad(t *testing.T) {
	patterns := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "10.45.0.1\r\n", "10.45.0.1", true},
		{"max octets", "255.255.255.255\r\n", "255.255.255.255", true},
		{"too few octets", "10.45.0\r\n", "", false},
		{"octet overflow", "256.0.0.1\r\n", "", false},
		{"not an address", "ERROR\r\n", "", false},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			got, ok := dottedQuad([]byte(p.in))
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.want, got)
		})
	}
}
