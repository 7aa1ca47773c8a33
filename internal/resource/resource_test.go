package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Operation
		wantErr bool
	}{
		{"create", OperationCreate, false},
		{" Delete ", OperationDelete, false},
		{"LIST", OperationList, false},
		{"patch", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseOperation(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOperation_Mutating(t *testing.T) {
	t.Parallel()
	assert.True(t, OperationCreate.Mutating())
	assert.True(t, OperationUpdate.Mutating())
	assert.True(t, OperationDelete.Mutating())
	assert.False(t, OperationRead.Mutating())
	assert.False(t, OperationList.Mutating())
}

func TestStatusTable_Phase(t *testing.T) {
	t.Parallel()

	table := StatusTable{
		OperationCreate: {
			Success: []string{"Created"},
			Failure: []string{"CreateFailed"},
			Pending: []string{"Creating"},
		},
	}

	assert.Equal(t, PhaseSuccess, table.Phase(OperationCreate, "Created"))
	assert.Equal(t, PhaseFailure, table.Phase(OperationCreate, "CreateFailed"))
	assert.Equal(t, PhasePending, table.Phase(OperationCreate, "Creating"))
	assert.Equal(t, PhaseUnknown, table.Phase(OperationCreate, "Exploded"))
	assert.Equal(t, PhaseUnknown, table.Phase(OperationUpdate, "Created"))
}

func TestTagsFromMap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, TagsFromMap(nil))

	tags := TagsFromMap(map[string]string{"team": "ml"})
	require.Len(t, tags, 1)
	assert.Equal(t, "team", *tags[0].Key)
	assert.Equal(t, "ml", *tags[0].Value)

	tags = TagsFromMap(map[string]string{"b": "2", "a": "1", "c": "3"})
	require.Len(t, tags, 3)
	assert.Equal(t, "a", *tags[0].Key)
	assert.Equal(t, "c", *tags[2].Key)
}

func TestFieldValidation(t *testing.T) {
	t.Parallel()

	a, b, empty := "a", "b", ""

	assert.Error(t, Required("Name", nil))
	assert.Error(t, Required("Name", &empty))
	assert.NoError(t, Required("Name", &a))

	assert.NoError(t, ReadOnly("Arn", nil))
	assert.EqualError(t, ReadOnly("Arn", &a), "Arn is read-only and cannot be set")

	assert.NoError(t, Immutable("Role", &a, &a))
	assert.NoError(t, Immutable("Role", nil, &empty))
	assert.EqualError(t, Immutable("Role", &a, &b), `Role cannot be changed from "a" to "b"`)

	assert.NoError(t, ImmutableList("Subnets", []string{"s1", "s2"}, []string{"s2", "s1"}))
	assert.Error(t, ImmutableList("Subnets", []string{"s1"}, []string{"s1", "s2"}))

	assert.Same(t, &a, Inherit(&a, nil))
	assert.Same(t, &b, Inherit(&a, &b))
}
