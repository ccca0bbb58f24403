/*
 * Copyright 2021. Go-Sharding Author All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 *  File author: Anders Xiao
 */

package logging

import (
	"os"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StandardLogger is the logging surface used by the packages, *zap.SugaredLogger implements it.
type StandardLogger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

var loggerMutex sync.RWMutex // guards access to global logger state

// loggers is the set of loggers in the system
var loggers = make(map[string]*zap.SugaredLogger)

var levels = make(map[string]zap.AtomicLevel)
var defaultLevel = zapcore.InfoLevel
var output = zapcore.AddSync(os.Stdout)

var logCore = newSwitchableCore(newCore(ColorizedOutput, output))

var DefaultLogger = GetLogger("sharding-router")

func GetLogger(name string) *zap.SugaredLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	log, ok := loggers[name]
	if !ok {
		levels[name] = zap.NewAtomicLevelAt(defaultLevel)

		log = zap.New(logCore, zap.AddCaller()).
			WithOptions(zap.IncreaseLevel(levels[name])).
			Named(name).
			Sugar()

		loggers[name] = log
	}

	return log
}

// SetLevel changes the level of one named logger, an empty name changes every logger.
func SetLevel(name string, level zapcore.Level) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	if name == "" {
		defaultLevel = level
		for _, l := range levels {
			l.SetLevel(level)
		}
		return
	}
	if l, ok := levels[name]; ok {
		l.SetLevel(level)
	}
}

// SetFormat switches the output encoding of every logger.
func SetFormat(format LogFormat) {
	logCore.current.Store(newCore(format, output))
}

func newCore(format LogFormat, ws zapcore.WriteSyncer) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case JSONOutput:
		encoder = zapcore.NewJSONEncoder(encCfg)
	case ColorizedOutput:
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}
	// levels are filtered per logger by zap.IncreaseLevel
	return zapcore.NewCore(encoder, ws, zapcore.DebugLevel)
}

// switchableCore forwards to the core installed by SetFormat.
type switchableCore struct {
	current atomic.Value
}

func newSwitchableCore(core zapcore.Core) *switchableCore {
	c := &switchableCore{}
	c.current.Store(core)
	return c
}

func (c *switchableCore) load() zapcore.Core {
	return c.current.Load().(zapcore.Core)
}

func (c *switchableCore) Enabled(level zapcore.Level) bool {
	return c.load().Enabled(level)
}

func (c *switchableCore) With(fields []zapcore.Field) zapcore.Core {
	return c.load().With(fields)
}

func (c *switchableCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *switchableCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.load().Write(ent, fields)
}

func (c *switchableCore) Sync() error {
	return c.load().Sync()
}
