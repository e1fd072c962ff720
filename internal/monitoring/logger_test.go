package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("crossing at %d", 42)
	assert.Equal(t, "crossing at 42", got)

	got = ""
	SetLogger(nil)
	Logf("ignored %d", 1)
	assert.Empty(t, got, "no-op logger should not reach the previous callback")
}

func TestInit(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		sugar = nil
	}()

	require.NoError(t, Init(true))
	assert.NotNil(t, Sugar())
	assert.NotPanics(t, func() { Logf("after init %s", "ok") })
	Sync()
}

func TestSugarBeforeInit(t *testing.T) {
	sugar = nil
	assert.NotNil(t, Sugar())
	assert.NotPanics(t, func() { Logf("default logger %d", 1) })
}
