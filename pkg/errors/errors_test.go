package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
)

func TestConfigError(t *testing.T) {
	err := errors.NewConfigError("normalizer", "entity column missing", nil)
	assert.Contains(t, err.Error(), "normalizer")
	assert.Contains(t, err.Error(), "entity column missing")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidConfig))
	assert.True(t, errors.IsConfig(err))
}

func TestConfigErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := errors.NewConfigError("rules", "bad ruleset", cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.ParseError
		want string
	}{
		{
			name: "with file and line",
			err:  &errors.ParseError{Format: "csv", File: "a.csv", Line: 3, Message: "bad record"},
			want: "parse error in csv file a.csv:3: bad record",
		},
		{
			name: "with file only",
			err:  &errors.ParseError{Format: "yaml", File: "rules.yaml", Message: "bad key"},
			want: "parse error in yaml file rules.yaml: bad key",
		},
		{
			name: "bare",
			err:  &errors.ParseError{Format: "xlsx", Message: "no sheet"},
			want: "xlsx parse error: no sheet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, errors.WrapIO("read", "x", nil))
	assert.NoError(t, errors.WrapParse("csv", "x", nil))
	assert.NoError(t, errors.WrapConfig("pipeline", nil))

	cause := errors.New("disk gone")
	wrapped := errors.WrapIO("read", "input.csv", cause)
	assert.Contains(t, wrapped.Error(), "input.csv")
	assert.True(t, stderrors.Is(wrapped, cause))
}
