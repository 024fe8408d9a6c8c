package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedPrefs(t *testing.T, args ...string) (*preferences, *cobra.Command) {
	t.Helper()
	var prefs preferences
	cmd := &cobra.Command{Use: "test"}
	prefs.bind(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return &prefs, cmd
}

func TestPreferences_AllFlags(t *testing.T) {
	prefs, cmd := parsedPrefs(t,
		"--budget", "5000",
		"--risk-tolerance", "low",
		"--duration", "1y",
		"--goal", "growth",
		"--interest", "bitcoin",
	)

	req, err := prefs.request(cmd)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, req.Budget.Amount)
	assert.Equal(t, "5000", req.Budget.String())
	require.NotNil(t, req.RiskTolerance)
	assert.Equal(t, "low", *req.RiskTolerance)
	require.NotNil(t, req.Interest)
	assert.Equal(t, "bitcoin", *req.Interest)
}

func TestPreferences_UnsetFlagsAreOmitted(t *testing.T) {
	prefs, cmd := parsedPrefs(t, "--goal", "income")

	req, err := prefs.request(cmd)
	require.NoError(t, err)
	assert.Equal(t, "0", req.Budget.String())
	assert.Nil(t, req.RiskTolerance)
	assert.Nil(t, req.Duration)
	require.NotNil(t, req.Goal)
	assert.Equal(t, "income", *req.Goal)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"prices", "prompt", "recommend"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
