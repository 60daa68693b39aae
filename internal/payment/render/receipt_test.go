package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	r := NewRenderer("J. Banda Properties", "ZMW")

	assert.Equal(t, "ZMW 0.00", r.FormatAmount(0))
	assert.Equal(t, "ZMW 0.50", r.FormatAmount(50))
	assert.Equal(t, "ZMW 8,000.00", r.FormatAmount(800000))
	assert.Equal(t, "ZMW 1,234,567.89", r.FormatAmount(123456789))
	assert.Equal(t, "ZMW -8,000.00", r.FormatAmount(-800000))
}
