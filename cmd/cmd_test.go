package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandNames() []string {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}

func TestSubcommandsRegistered(t *testing.T) {
	names := commandNames()
	for _, want := range []string{"fill", "preview", "detect", "history"} {
		assert.Contains(t, names, want)
	}
}

func TestFillFlags(t *testing.T) {
	for _, flag := range []string{"skip-optional", "include-demographics", "no-focus"} {
		assert.NotNil(t, fillCmd.Flags().Lookup(flag), flag)
	}
}

func TestHistoryFlags(t *testing.T) {
	limit := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
	assert.NotNil(t, historyCmd.Flags().Lookup("clear"))
}

func TestFillRequiresURL(t *testing.T) {
	assert.Error(t, fillCmd.Args(fillCmd, nil))
	assert.NoError(t, fillCmd.Args(fillCmd, []string{"https://jobs.example.com"}))
	assert.Error(t, fillCmd.Args(fillCmd, []string{"a", "b"}))
}

func TestRootHasConfigFlag(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
