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

package testkit

import (
	"testing"

	"github.com/endink/go-sharding-router/config"
	"github.com/endink/go-sharding-router/rule"
)

// OrderRuleYAML is the sharding topology most routing tests run against:
//
//	t_order, t_order_item  bound, ds0.*_{0,1} ds1.*_{2,3} by order_id % 4
//	t_user                 ds0 and ds1 by user_id % 2, one table per data source
//	t_product              ds0 and ds1 by jump hash of product_id
//	t_log                  hint only
//	t_range                boundary ranges of amount
//	t_config               broadcast
//
// ds1 and ds2 share one instance, every data source is a group of its own.
const OrderRuleYAML = `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
    group: g0
  ds1:
    instance: 127.0.0.1:3307
    group: g1
  ds2:
    instance: 127.0.0.1:3307
    group: g2

tables:
  t_order:
    actual-data-nodes: ds0.t_order_${0..1},ds1.t_order_${2..3}
    database-strategy:
      inline:
        sharding-columns: order_id
        algorithm-expression: ds${order_id % 4 / 2}
    table-strategy:
      inline:
        sharding-columns: order_id
        algorithm-expression: t_order_${order_id % 4}
  t_order_item:
    actual-data-nodes: ds0.t_order_item_${0..1},ds1.t_order_item_${2..3}
    database-strategy:
      inline:
        sharding-columns: order_id
        algorithm-expression: ds${order_id % 4 / 2}
    table-strategy:
      standard:
        sharding-column: order_id
        sharding-algorithm-name: order_mod
  t_user:
    actual-data-nodes: ds${0..1}.t_user
    database-strategy:
      standard:
        sharding-column: user_id
        sharding-algorithm-name: user_mod
  t_product:
    actual-data-nodes: ds${0..1}.t_product
    database-strategy:
      standard:
        sharding-column: product_id
        sharding-algorithm-name: product_hash
  t_log:
    actual-data-nodes: ds0.t_log_${0..1}
    table-strategy:
      hint:
        sharding-algorithm-name: log_hint
  t_range:
    actual-data-nodes: ds0.t_range_${0..2}
    table-strategy:
      standard:
        sharding-column: amount
        sharding-algorithm-name: amount_range

binding-tables:
  - t_order, t_order_item
broadcast-tables:
  - t_config

algorithms:
  order_mod:
    type: MOD
    props:
      sharding-count: 4
  user_mod:
    type: MOD
    props:
      sharding-count: 2
  product_hash:
    type: JUMP_HASH
    props:
      sharding-count: 2
  log_hint:
    type: INLINE
    props:
      algorithm-expression: t_log_${value % 2}
  amount_range:
    type: BOUNDARY_RANGE
    props:
      sharding-ranges: 100,200
`

// OrderRule builds the rule of OrderRuleYAML.
func OrderRule(t testing.TB) *rule.ShardingRule {
	return RuleForTest(t, OrderRuleYAML)
}

func RuleForTest(t testing.TB, yaml string) *rule.ShardingRule {
	cfg, err := config.FromYAMLString(yaml)
	if err != nil {
		t.Fatalf("load rule config fault: %v", err)
	}
	r, err := rule.Build(cfg)
	if err != nil {
		t.Fatalf("build sharding rule fault: %v", err)
	}
	return r
}
