package validate

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(&application.Mock{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateFields(t *testing.T) {
	out, err := execute(t, "sample_name", "lib-01", "lib_02")
	require.NoError(t, err)

	var results []Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, []Result{
		{Field: "sample_name", Value: "lib-01", Valid: true},
		{Field: "sample_name", Value: "lib_02", Valid: true},
	}, results)

	out, err = execute(t, "lanes", "1-3", "1,x")
	assert.True(t, errors.IsValidationError(err))
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.False(t, results[1].Valid)

	_, err = execute(t, "colour", "red")
	assert.True(t, errors.IsValidationError(err))
}

func TestValidateBasesMask(t *testing.T) {
	out, err := execute(t, "bases-mask", "--planned", "151T8B8B151T", "151T8B8B151T")
	require.NoError(t, err)
	assert.JSONEq(t, `{"planned":"151T8B8B151T","mask":"151T8B8B151T","tool":"bcl2fastq","rendered":"y151,I8,I8,y151"}`, out)

	_, err = execute(t, "bases_mask", "--planned", "151T8B8B151T", "--tool", "bcl2fastq", "8M143T8B8B151T")
	assert.True(t, errors.IsValidationError(err))

	_, err = execute(t, "bases_mask", "151T")
	assert.True(t, errors.IsValidationError(err))
}
