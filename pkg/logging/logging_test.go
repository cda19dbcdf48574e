package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContextDefaultsWhenUntagged(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}

func TestContextFieldHelpers(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithRun(ctx, "run-42")
	ctx = WithSide(ctx, "A")
	ctx = WithTable(ctx, "ledger.csv")

	FromContext(ctx).Info().Msg("tagged")

	assert.True(t, tl.Contains(`"run_id":"run-42"`))
	assert.True(t, tl.Contains(`"side":"A"`))
	assert.True(t, tl.Contains(`"table":"ledger.csv"`))
}

func TestDisableLoggingForTestRestoresDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	previous := *Default()
	SetDefault(New(buf))
	t.Cleanup(func() { SetDefault(previous) })

	t.Run("silenced", func(t *testing.T) {
		DisableLoggingForTest(t)
		Default().Info().Msg("dropped")
	})

	Default().Info().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept", "cleanup restores the captured value, not the nop logger")
}
