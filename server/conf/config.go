package conf

import (
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
	"gopkg.in/ini.v1"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/column"
	"github.com/zhukovaskychina/xdb2-client/server/protocol"
)

// Cfg 客户端编解码配置
type Cfg struct {
	Raw *ini.File

	// codec
	DefaultCCSID  int
	DateFormat    string
	TimeFormat    string
	DateSeparator string
	TimeSeparator string
	TimeZone      string

	// cache
	StringCacheSize int
	DateCacheSize   int
	TimeCacheSize   int

	// lob
	LOBMaxSize int

	// capture
	Compression protocol.CompressType

	// logs
	LogLevel string
	LogError string
	LogInfos string
}

// NewCfg 默认配置
func NewCfg() *Cfg {
	return &Cfg{
		Raw:           ini.Empty(),
		DefaultCCSID:  codec.CCSIDEbcdicUS,
		DateFormat:    "iso",
		TimeFormat:    "iso",
		DateSeparator: "-",
		TimeSeparator: ".",
		TimeZone:      "Local",
		LOBMaxSize:    16 * 1024 * 1024,
		Compression:   protocol.CompressNone,
		LogLevel:      "info",
	}
}

// Load 读取 ini 文件，文件中缺少的项保留默认值
func Load(path string) (*Cfg, error) {
	cfg := NewCfg()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Annotatef(err, "config file %s", path)
	}
	file, err := ini.Load(path)
	if err != nil {
		return nil, errors.Annotatef(err, "parse config file %s", path)
	}
	if err := cfg.apply(file); err != nil {
		return nil, err
	}
	logger.Debugf("成功加载配置文件: %s", path)
	return cfg, nil
}

// LoadBytes 从内存中的 ini 内容加载
func LoadBytes(data []byte) (*Cfg, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, errors.Annotate(err, "parse config")
	}
	cfg := NewCfg()
	if err := cfg.apply(file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Cfg) apply(file *ini.File) error {
	cfg.Raw = file
	if err := cfg.parseCodecCfg(file.Section("codec")); err != nil {
		return err
	}
	cfg.parseCacheCfg(file.Section("cache"))
	cfg.LOBMaxSize = file.Section("lob").Key("max_size").MustInt(cfg.LOBMaxSize)
	if err := cfg.parseCaptureCfg(file.Section("capture")); err != nil {
		return err
	}
	cfg.parseLogsCfg(file.Section("logs"))
	return nil
}

func (cfg *Cfg) parseCodecCfg(section *ini.Section) error {
	cfg.DefaultCCSID = section.Key("default_ccsid").MustInt(cfg.DefaultCCSID)
	if _, err := codec.ConverterFor(cfg.DefaultCCSID); err != nil {
		return errors.Annotatef(err, "default_ccsid %d", cfg.DefaultCCSID)
	}

	cfg.DateFormat = valueAsString(section, "date_format", cfg.DateFormat)
	if _, ok := column.DateFormatCode(cfg.DateFormat); !ok {
		return errors.Errorf("illegal date_format %q", cfg.DateFormat)
	}
	cfg.TimeFormat = valueAsString(section, "time_format", cfg.TimeFormat)
	if _, ok := column.TimeFormatCode(cfg.TimeFormat); !ok {
		return errors.Errorf("illegal time_format %q", cfg.TimeFormat)
	}
	cfg.DateSeparator = valueAsString(section, "date_separator", cfg.DateSeparator)
	if _, ok := column.DateSeparatorCode(cfg.DateSeparator); !ok {
		return errors.Errorf("illegal date_separator %q", cfg.DateSeparator)
	}
	cfg.TimeSeparator = valueAsString(section, "time_separator", cfg.TimeSeparator)
	if _, ok := column.TimeSeparatorCode(cfg.TimeSeparator); !ok {
		return errors.Errorf("illegal time_separator %q", cfg.TimeSeparator)
	}
	cfg.TimeZone = valueAsString(section, "time_zone", cfg.TimeZone)
	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return errors.Annotatef(err, "time_zone %q", cfg.TimeZone)
	}
	return nil
}

func (cfg *Cfg) parseCacheCfg(section *ini.Section) {
	cfg.StringCacheSize = section.Key("string_cache_size").MustInt(cfg.StringCacheSize)
	cfg.DateCacheSize = section.Key("date_cache_size").MustInt(cfg.DateCacheSize)
	cfg.TimeCacheSize = section.Key("time_cache_size").MustInt(cfg.TimeCacheSize)
}

func (cfg *Cfg) parseCaptureCfg(section *ini.Section) error {
	name := valueAsString(section, "compression", cfg.Compression.String())
	c, err := protocol.ParseCompressType(name)
	if err != nil {
		return err
	}
	cfg.Compression = c
	return nil
}

func (cfg *Cfg) parseLogsCfg(section *ini.Section) {
	cfg.LogError = valueAsString(section, "log_error", cfg.LogError)
	cfg.LogInfos = valueAsString(section, "log_infos", cfg.LogInfos)
	cfg.LogLevel = strings.ToLower(valueAsString(section, "log_level", cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		logger.Warnf("无效的日志级别 '%s', 使用默认级别 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
}

func valueAsString(section *ini.Section, keyName string, defaultValue string) string {
	if section == nil {
		return defaultValue
	}
	value := section.Key(keyName).MustString(defaultValue)
	if value == "" {
		return defaultValue
	}
	return value
}

// LogConfig 日志配置
func (cfg *Cfg) LogConfig() logger.LogConfig {
	return logger.LogConfig{
		ErrorLogPath: cfg.LogError,
		InfoLogPath:  cfg.LogInfos,
		LogLevel:     cfg.LogLevel,
	}
}

// Location 时区, 名称无效时回退到 time.Local
func (cfg *Cfg) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ColumnOptions 列编解码相关的设置
func (cfg *Cfg) ColumnOptions() column.Options {
	opts := column.DefaultOptions()
	opts.DateFormat, _ = column.DateFormatCode(cfg.DateFormat)
	opts.TimeFormat, _ = column.TimeFormatCode(cfg.TimeFormat)
	opts.DateSeparator, _ = column.DateSeparatorCode(cfg.DateSeparator)
	opts.TimeSeparator, _ = column.TimeSeparatorCode(cfg.TimeSeparator)
	opts.DefaultCCSID = cfg.DefaultCCSID
	opts.StringCacheSize = cfg.StringCacheSize
	opts.DateCacheSize = cfg.DateCacheSize
	opts.TimeCacheSize = cfg.TimeCacheSize
	opts.LOBMaxSize = cfg.LOBMaxSize
	opts.Location = cfg.Location()
	return opts
}

// GetString 按 "section.key" 读取原始配置
func (cfg *Cfg) GetString(key string) string {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) < 2 || cfg.Raw == nil {
		return ""
	}
	return valueAsString(cfg.Raw.Section(parts[0]), parts[1], "")
}

// GetInt 按 "section.key" 读取整数配置
func (cfg *Cfg) GetInt(key string) int {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) < 2 || cfg.Raw == nil {
		return 0
	}
	return cfg.Raw.Section(parts[0]).Key(parts[1]).MustInt(0)
}
