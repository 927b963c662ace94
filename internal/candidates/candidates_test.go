package candidates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	s := ParseList(" 42, 43,,42 ,44")
	users, err := s.Candidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "43", "44"}, users)
}

func TestStatic_ReturnsCopy(t *testing.T) {
	s := NewStatic("1", "2")
	users, _ := s.Candidates(context.Background())
	users[0] = "mutated"

	again, _ := s.Candidates(context.Background())
	assert.Equal(t, []string{"1", "2"}, again)
}

func TestParseList_Empty(t *testing.T) {
	users, err := ParseList("").Candidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestFunc(t *testing.T) {
	var src Source = Func(func(context.Context) ([]string, error) { return []string{"9"}, nil })
	users, err := src.Candidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, users)
}
