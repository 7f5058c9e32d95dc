package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/precheckout/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestNew_PlainUnderNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf)

	styled := out.String("ready").Foreground(termenv.RGBColor("#22A06B"))
	_, _ = out.WriteString(styled.String())
	assert.Equal(t, "ready", buf.String())
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}
