// Package logging builds the application's zap logger and the HTTP access
// log middleware that replaces chi's stdlib-backed middleware.Logger.
package logging

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
)

// Level maps a LOG_LEVEL value to a zap level. Unknown names mean info.
func Level(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger for cfg.
//
//	production → JSON encoder (zap.NewProductionConfig)
//	testing    → no-op
//	anything else → console encoder (zap.NewDevelopmentConfig)
func New(cfg *config.Config, opts ...zap.Option) (*zap.Logger, error) {
	var zc zap.Config
	switch cfg.App.Env {
	case "testing":
		return zap.NewNop(), nil
	case "production":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(Level(cfg.Log.Level))

	logger, err := zc.Build(opts...)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("app", cfg.App.Name)), nil
}

// Middleware logs one line per request: method, path, status, bytes,
// duration and the chi request id when middleware.RequestID ran first.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
