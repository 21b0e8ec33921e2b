package logger

import (
	"io"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// envSettings reads LOG_* variables plus APP_ENV and SERVICE_NAME.
func envSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("log")
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("service", "SERVICE_NAME")

	v.SetDefault("level", "info")
	v.SetDefault("format", "json")
	v.SetDefault("service", "vidgrid")
	v.SetDefault("env", "local")
	v.SetDefault("file", "/var/log/vidgrid/app.log")
	v.SetDefault("file_only", false)
	v.SetDefault("max_size", 100)
	v.SetDefault("max_backups", 7)
	v.SetDefault("max_age", 30)
	v.SetDefault("compress", true)
	return v
}

// outputFor picks stdout, a rotating file, or both. The local environment never writes a file.
func outputFor(v *viper.Viper) io.Writer {
	local := v.GetString("env") == "local"
	path := v.GetString("file")
	if local || path == "" {
		return os.Stdout
	}

	fileWriter := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    v.GetInt("max_size"), // MB
		MaxBackups: v.GetInt("max_backups"),
		MaxAge:     v.GetInt("max_age"), // days
		Compress:   v.GetBool("compress"),
	}
	rotatingMu.Lock()
	rotating = fileWriter
	rotatingMu.Unlock()

	if v.GetBool("file_only") {
		return fileWriter
	}
	return io.MultiWriter(os.Stdout, fileWriter)
}

// NewDefault creates a Logger from the process environment.
// Outside the local environment logs also go to a rotating file; call Sync before exit.
func NewDefault() *Logger {
	v := envSettings()
	return New(&Config{
		Level:       v.GetString("level"),
		Format:      v.GetString("format"),
		Output:      outputFor(v),
		ServiceName: v.GetString("service"),
	})
}
