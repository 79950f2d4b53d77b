package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xdb2-client/server/column"
	"github.com/zhukovaskychina/xdb2-client/server/protocol"
)

const sample = `
[codec]
default_ccsid = 1140
date_format = usa
time_format = hms
date_separator = /
time_separator = .
time_zone = UTC

[cache]
string_cache_size = 64
date_cache_size = 16

[lob]
max_size = 1024

[capture]
compression = lz4

[logs]
log_level = DEBUG
log_infos = /tmp/xdb2/info.log
`

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	opts := cfg.ColumnOptions()
	assert.Equal(t, column.DateISO, opts.DateFormat)
	assert.Equal(t, column.TimeISO, opts.TimeFormat)
	assert.Equal(t, 37, opts.DefaultCCSID)
	assert.Equal(t, 0, opts.StringCacheSize)
	assert.Equal(t, protocol.CompressNone, cfg.Compression)
	assert.Equal(t, "info", cfg.LogConfig().LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xdb2.ini")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, protocol.CompressLZ4, cfg.Compression)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/xdb2/info.log", cfg.LogConfig().InfoLogPath)
	assert.Equal(t, 64, cfg.GetInt("cache.string_cache_size"))
	assert.Equal(t, "usa", cfg.GetString("codec.date_format"))
	assert.Equal(t, "", cfg.GetString("nosection"))

	opts := cfg.ColumnOptions()
	assert.Equal(t, column.DateUSA, opts.DateFormat)
	assert.Equal(t, column.TimeHMS, opts.TimeFormat)
	assert.Equal(t, 0, opts.DateSeparator)
	assert.Equal(t, 1, opts.TimeSeparator)
	assert.Equal(t, 1140, opts.DefaultCCSID)
	assert.Equal(t, 64, opts.StringCacheSize)
	assert.Equal(t, 16, opts.DateCacheSize)
	assert.Equal(t, 0, opts.TimeCacheSize)
	assert.Equal(t, 1024, opts.LOBMaxSize)
	assert.Equal(t, "UTC", opts.Location.String())
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	assert.Error(t, err)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ccsid":       "[codec]\ndefault_ccsid = 99999\n",
		"date format": "[codec]\ndate_format = roman\n",
		"time format": "[codec]\ntime_format = x\n",
		"date sep":    "[codec]\ndate_separator = |\n",
		"zone":        "[codec]\ntime_zone = Mars/Olympus\n",
		"compression": "[capture]\ncompression = zstd\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBytes([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestBadLogLevelFallsBack(t *testing.T) {
	cfg, err := LoadBytes([]byte("[logs]\nlog_level = loud\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}
