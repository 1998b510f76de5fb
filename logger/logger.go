package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/config"
)

// New builds the process logger on stderr.
func New(cfg config.Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

/*
NewWithWriter 依設定建立 zerolog logger
  - json: 結構化輸出
  - console: 人類可讀格式
*/
func NewWithWriter(cfg config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil {
		return zerolog.Nop(), apperr.Wrap(apperr.Kind_ConfigurationError, err, "logger: invalid level")
	}

	// 未設定時 ParseLevel 回傳 NoLevel
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
