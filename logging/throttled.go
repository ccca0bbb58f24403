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
	"fmt"
	"sync"
	"time"
)

// ThrottledLogger writes a message at most once per interval for each format, so frequent
// messages do not hide rare ones. The number of dropped messages is reported with the next
// message of the same format.
type ThrottledLogger struct {
	name        string
	maxInterval time.Duration
	logger      StandardLogger
	now         func() time.Time

	// mu protects states
	mu     sync.Mutex
	states map[string]*throttleState
}

type throttleState struct {
	last    time.Time
	skipped int
}

func NewThrottledLogger(name string, logger StandardLogger, maxInterval time.Duration) *ThrottledLogger {
	if logger == nil {
		logger = GetLogger(name)
	}
	return &ThrottledLogger{
		name:        name,
		maxInterval: maxInterval,
		logger:      logger,
		now:         time.Now,
		states:      make(map[string]*throttleState),
	}
}

func (tl *ThrottledLogger) log(write func(args ...interface{}), format string, v ...interface{}) {
	tl.mu.Lock()
	now := tl.now()
	st, ok := tl.states[format]
	if ok && now.Sub(st.last) < tl.maxInterval {
		st.skipped++
		tl.mu.Unlock()
		return
	}
	if !ok {
		st = &throttleState{}
		tl.states[format] = st
	}
	skipped := st.skipped
	st.last, st.skipped = now, 0
	tl.mu.Unlock()

	msg := fmt.Sprintf(format, v...)
	if skipped > 0 {
		msg = fmt.Sprintf("%s (skipped %d similar messages)", msg, skipped)
	}
	write(tl.name + ": " + msg)
}

func (tl *ThrottledLogger) Infof(format string, v ...interface{}) {
	tl.log(tl.logger.Info, format, v...)
}

func (tl *ThrottledLogger) Warnf(format string, v ...interface{}) {
	tl.log(tl.logger.Warn, format, v...)
}

func (tl *ThrottledLogger) Errorf(format string, v ...interface{}) {
	tl.log(tl.logger.Error, format, v...)
}
