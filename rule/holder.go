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

package rule

import (
	"github.com/endink/go-sharding-router/config"
	"go.uber.org/atomic"
)

// Holder publishes rule snapshots, a routing call loads the snapshot once and keeps it.
type Holder struct {
	current *atomic.Pointer[ShardingRule]
}

func NewHolder(initial *ShardingRule) *Holder {
	return &Holder{current: atomic.NewPointer(initial)}
}

func (h *Holder) Load() *ShardingRule {
	return h.current.Load()
}

func (h *Holder) Store(r *ShardingRule) {
	h.current.Store(r)
}

// Reload builds a new snapshot and swaps it in, the current snapshot is kept on error.
func (h *Holder) Reload(cfg *config.Config) error {
	r, err := Build(cfg)
	if err != nil {
		logger.Warn("sharding rule reload rejected: ", err)
		return err
	}
	h.Store(r)
	return nil
}
