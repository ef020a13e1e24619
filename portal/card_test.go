package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCardValidate(t *testing.T) {
	valid := CardDetails{Number: "4111 1111 1111 1111", Expiry: "12/30", CVV: "123", Holder: "Emma Customer"}

	cases := []struct {
		name   string
		modify func(c *CardDetails)
		ok     bool
	}{
		{"valid", func(c *CardDetails) {}, true},
		{"four digit cvv", func(c *CardDetails) { c.CVV = "1234" }, true},
		{"expires this month", func(c *CardDetails) { c.Expiry = "05/24" }, true},
		{"expired last month", func(c *CardDetails) { c.Expiry = "04/24" }, false},
		{"missing holder", func(c *CardDetails) { c.Holder = "" }, false},
		{"number without spaces", func(c *CardDetails) { c.Number = "4111111111111111" }, false},
		{"short number", func(c *CardDetails) { c.Number = "4111 1111 1111" }, false},
		{"month 13", func(c *CardDetails) { c.Expiry = "13/30" }, false},
		{"month 00", func(c *CardDetails) { c.Expiry = "00/30" }, false},
		{"expiry with year", func(c *CardDetails) { c.Expiry = "12/2030" }, false},
		{"cvv letters", func(c *CardDetails) { c.CVV = "12a" }, false},
		{"holder digits", func(c *CardDetails) { c.Holder = "R2 D2" }, false},
		{"holder one letter", func(c *CardDetails) { c.Holder = "J" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.modify(&c)
			err := c.Validate(testNow)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestCardDecemberExpiry(t *testing.T) {
	c := CardDetails{Number: "4111 1111 1111 1111", Expiry: "12/24", CVV: "123", Holder: "Emma Customer"}

	assert.NoError(t, c.Validate(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)))
	assert.Error(t, c.Validate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
