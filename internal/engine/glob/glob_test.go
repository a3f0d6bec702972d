package glob

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchStarMatchesEverything(t *testing.T) {
	require.True(t, Match("*", "anything"))
	require.True(t, Match("*", ""))
}

func TestMatchQuestionMarkExactlyOneByte(t *testing.T) {
	require.True(t, Match("k?y", "key"))
	require.False(t, Match("k?y", "ky"))
	require.False(t, Match("k?y", "keey"))
}

func TestMatchMixedWildcards(t *testing.T) {
	require.True(t, Match("user:*:session", "user:42:session"))
	require.False(t, Match("user:*:session", "user:42:token"))
	require.True(t, Match("h?llo*", "hello world"))
}

func TestMatchLiteral(t *testing.T) {
	require.True(t, Match("mykey", "mykey"))
	require.False(t, Match("mykey", "mykeys"))
}
