// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"io/ioutil"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerBox struct {
	logrus.FieldLogger
}

var logger atomic.Value

func init() {
	logger.Store(loggerBox{newDiscardLogger()})
}

func newDiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	l.Level = logrus.PanicLevel
	return l
}

// SetLogger sets the logger used by the package and the backends that
// share it. Pass nil to restore the default, which logs nothing.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newDiscardLogger()
	}
	logger.Store(loggerBox{l})
}

// Logger returns the current package logger.
func Logger() logrus.FieldLogger {
	return logger.Load().(loggerBox).FieldLogger
}
