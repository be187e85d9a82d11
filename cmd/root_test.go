package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfigDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, analyzerHeuristic, config.Analyzer)
	assert.InDelta(t, 15, config.BaselineRate, 1e-9)
	assert.Equal(t, "json", config.Export.Format)
	require.NotNil(t, config.Gemini)
	assert.Equal(t, 3, config.Gemini.Concurrency)
}

func TestDecodeConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{
			name:   "gemini analyzer",
			values: map[string]any{"analyzer": "gemini", "gemini.model": "gemini-2.5-pro"},
		},
		{
			name:   "weakly typed baseline",
			values: map[string]any{"baseline-rate": "22.5"},
		},
		{
			name:    "unknown analyzer",
			values:  map[string]any{"analyzer": "regex"},
			wantErr: true,
		},
		{
			name:    "baseline above 100",
			values:  map[string]any{"baseline-rate": 120},
			wantErr: true,
		},
		{
			name:    "negative baseline",
			values:  map[string]any{"baseline-rate": -1},
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			values:  map[string]any{"gemini.concurrency": 0},
			wantErr: true,
		},
		{
			name:    "unknown export format",
			values:  map[string]any{"export.format": "docx"},
			wantErr: true,
		},
		{
			name:    "unknown export range",
			values:  map[string]any{"export.range": "year"},
			wantErr: true,
		},
		{
			name:   "pdf export is a valid format",
			values: map[string]any{"export.format": "pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			setDefaults(v)
			for key, value := range tt.values {
				v.Set(key, value)
			}

			_, err := decodeConfig(v)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewAnalyzerRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := newAnalyzer(t.Context(), &Config{Analyzer: "regex"}, nil)
	require.Error(t, err)

	analyzer, err := newAnalyzer(t.Context(), &Config{Analyzer: analyzerHeuristic}, nil)
	require.NoError(t, err)
	assert.NotNil(t, analyzer)
}

func TestNewGeminiAnalyzerRequiresKey(t *testing.T) {
	t.Setenv("ATS_GEMINI_API_KEY", "")

	_, err := newGeminiAnalyzer(t.Context(), &GeminiConfig{Concurrency: 1}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), geminiKeyFileEnv)
}

func TestFormatDetails(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "optional=false weight=0.15", formatDetails(map[string]string{"weight": "0.15", "optional": "false"}))
	assert.Empty(t, formatDetails(nil))
}

func TestPrintRules(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printRules(&out)

	text := out.String()
	for _, want := range []string{"experience", "weight=0.40", "strong_section", "score >= 90", "+5", "positive", "weak_section", "score <= 50", "-10", "negative"} {
		assert.Contains(t, text, want)
	}
}

func TestRulesCommandWritesToCommandOutput(t *testing.T) {
	var out bytes.Buffer
	rulesCmd.SetOut(&out)
	t.Cleanup(func() { rulesCmd.SetOut(nil) })

	rulesCmd.Run(rulesCmd, nil)
	assert.Contains(t, out.String(), "weak_section")
}
