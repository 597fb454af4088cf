package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	testCases := []struct {
		name  string
		login string
		names []string
		want  User
	}{
		{name: "profile name", login: "alice", names: []string{"Alice", "alice-git"}, want: User{Login: "alice", Name: "Alice"}},
		{name: "falls through empty names", login: "alice", names: []string{"", "alice-git"}, want: User{Login: "alice", Name: "alice-git"}},
		{name: "falls back to login", login: "alice", names: []string{"", ""}, want: User{Login: "alice", Name: "alice"}},
		{name: "no account but a git name", login: "", names: []string{"", "Mallory"}, want: User{Login: UnknownLogin, Name: "Mallory"}},
		{name: "nothing known", login: "", want: User{Login: UnknownLogin, Name: UnknownUser}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewUser(tc.login, tc.names...))
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("z", "", "b", "c"))
	assert.Equal(t, "z", FirstNonEmpty("z", "", ""))
	assert.Equal(t, "z", FirstNonEmpty("z"))
}
