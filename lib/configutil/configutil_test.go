package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl   string `json:"base_url"`
	StartHour int    `json:"start_hour"`
	NoConfirm bool   `json:"no_confirm"`
}

func TestReadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "towerassist.json5")

	defaults := testConfig{BaseUrl: "https://tower.im", StartHour: 18}

	cfg, err := ReadConfig(path, defaults)
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.Equal(t, defaults, cfg)

	err = os.WriteFile(path, []byte(`{
		// comments are allowed
		start_hour: 19,
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = ReadConfig(path, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://tower.im", StartHour: 19}, cfg)

	err = os.WriteFile(filepath.Join(dir, "towerassist.local.json5"), []byte(`{
		base_url: "http://localhost:8080",
		no_confirm: true,
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = ReadConfig(path, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "http://localhost:8080", StartHour: 19, NoConfirm: true}, cfg)
}

func TestReadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json5")
	err := os.WriteFile(path, []byte(`{ start_hour: `), 0600)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ReadConfig(path, testConfig{})
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrNotExist))
}

func TestSplitExt(t *testing.T) {
	cases := []struct {
		input  string
		prefix string
		ext    string
	}{
		{input: "config.json5", prefix: "config", ext: "json5"},
		{input: "a.b.json", prefix: "a.b", ext: "json"},
		{input: "noext", prefix: "noext", ext: ""},
	}
	for _, test := range cases {
		prefix, ext := splitExt(test.input)
		require.Equal(t, test.prefix, prefix)
		require.Equal(t, test.ext, ext)
	}
}
