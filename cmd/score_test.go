package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/ats-insights/internal/ats"
)

func TestSessionRefreshWithMissingResumeIsStale(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [Go, Kubernetes]\n"), 0o600))

	s := &session{
		engine:     ats.NewEngine(nil),
		config:     &Config{Export: &ExportConfig{}},
		logger:     zap.NewNop(),
		resumePath: path,
	}

	require.NoError(t, s.calculate(t.Context(), ats.TriggerInputChanged))
	good := s.engine.Latest()
	require.NotNil(t, good)

	require.NoError(t, os.Remove(path))

	err := s.calculate(t.Context(), ats.TriggerManualRefresh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading resume")

	status := s.engine.Status()
	assert.Equal(t, ats.StateError, status.State)
	assert.True(t, status.Stale)
	assert.Same(t, good, status.Snapshot)
}
