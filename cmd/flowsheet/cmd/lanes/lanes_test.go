package lanes

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

func execute(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(&application.Mock{OutputFormatFunc: func() string { return format }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParse(t *testing.T) {
	r := Parse("5, 1-3")
	assert.True(t, r.Valid)
	assert.Equal(t, []int{1, 2, 3, 5}, r.Lanes)
	assert.Equal(t, "1-3,5", r.Canonical)

	r = Parse("1,x")
	assert.False(t, r.Valid)
	assert.Empty(t, r.Lanes)
	assert.Contains(t, r.Error, "at offset 2")

	r = Parse("")
	assert.True(t, r.Valid)
	assert.Equal(t, "", r.Canonical)
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "json", "parse", "1-3", "4,2")
	require.NoError(t, err)

	var results []output.LaneResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []int{1, 2, 3}, results[0].Lanes)
	assert.Equal(t, "2,4", results[1].Canonical)

	_, err = execute(t, "json", "parse", "1,x")
	assert.NoError(t, err)

	_, err = execute(t, "json", "parse", "--strict", "1,x")
	assert.True(t, errors.IsValidationError(err))
}

func TestFormatCommand(t *testing.T) {
	out, err := execute(t, "table", "format", "5", "1,2", "3", "3")
	require.NoError(t, err)
	assert.Equal(t, "1-3,5\n", out)

	out, err = execute(t, "json", "format", "2", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"1-2","valid":true,"lanes":[1,2],"canonical":"1-2"}`, out)

	_, err = execute(t, "table", "format", "0")
	assert.True(t, errors.IsValidationError(err))
	_, err = execute(t, "table", "format", "a")
	assert.True(t, errors.IsValidationError(err))
}
