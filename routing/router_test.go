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

package routing

import (
	"sync"
	"testing"

	"github.com/endink/go-sharding-router/config"
	"github.com/endink/go-sharding-router/routing/engine"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
	"github.com/endink/go-sharding-router/testkit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleSourceYAML = `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
tables:
  t_order:
    actual-data-nodes: ds0.t_order_${0..1}
    table-strategy:
      inline:
        sharding-columns: order_id
        algorithm-expression: t_order_${order_id % 2}
props:
  check-table-metadata: true
`

func newTestRouter(t *testing.T, opts ...Option) (*Router, *Metrics) {
	m := NewMetrics(prometheus.NewRegistry())
	opts = append(opts, WithMetrics(m))
	return NewRouter(rule.NewHolder(testkit.OrderRule(t)), opts...), m
}

func TestRouteSQL(t *testing.T) {
	router, m := newTestRouter(t)

	ctx, err := router.RouteSQL("select * from t_order where order_id = ?", 7)
	require.NoError(t, err)
	assert.Equal(t, "ds1[t_order->t_order_3]", ctx.String())

	ctx, err = router.RouteSQL("select * from t_config")
	require.NoError(t, err)
	assert.Equal(t, 1, ctx.Len())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.routes.WithLabelValues("Standard")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.routes.WithLabelValues("Unicast")))
}

func TestRouteRejections(t *testing.T) {
	router, m := newTestRouter(t)

	_, err := router.RouteSQL("update t_order set order_id = 98 where order_id = 7")
	assert.True(t, rerrors.Is(err, rerrors.InconsistentRouteResult))

	_, err = router.RouteSQL("delete from t_order limit 1")
	assert.True(t, rerrors.Is(err, rerrors.LimitWithMultiNodeRoute))

	_, err = router.RouteSQL("rename table t_order to t_order_bak")
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape))

	_, err = router.RouteSQL("select * from t_order where order_id = ?")
	assert.True(t, rerrors.Is(err, rerrors.UnroutableCondition))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejections.WithLabelValues("InconsistentRouteResult")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejections.WithLabelValues("LimitWithMultiNodeRoute")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejections.WithLabelValues("UnsupportedStatementShape")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejections.WithLabelValues("UnroutableCondition")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.routes.WithLabelValues("Standard")))
}

func TestRouteWithHint(t *testing.T) {
	router, _ := newTestRouter(t)
	stmt := testkit.BindForTest("select * from t_log", t)
	hint := &statement.HintValueContext{TableValues: map[string][]interface{}{"t_log": {3}}}

	ctx, err := router.Route(stmt, nil, hint)
	require.NoError(t, err)
	assert.Equal(t, "ds0[t_log->t_log_1]", ctx.String())

	_, err = router.Route(nil, nil, nil)
	assert.Error(t, err)
}

func TestRouteWithDatabase(t *testing.T) {
	holder := rule.NewHolder(testkit.RuleForTest(t, singleSourceYAML))
	router := NewRouter(holder, WithDatabase(rule.NewDatabase("sharding_db", "t_order")))

	_, err := router.RouteSQL("create table t_order (order_id int)")
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape))

	_, err = router.RouteSQL("drop table t_unknown")
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape))

	router.SetDatabase(nil)
	ctx, err := router.RouteSQL("create table t_order (order_id int)")
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Len())
}

func TestRouteAfterReload(t *testing.T) {
	holder := rule.NewHolder(testkit.OrderRule(t))
	router := NewRouter(holder)

	ctx, err := router.RouteSQL("select * from t_order where order_id = 7")
	require.NoError(t, err)
	assert.Equal(t, "ds1[t_order->t_order_3]", ctx.String())

	cfg, err := config.FromYAMLString(singleSourceYAML)
	require.NoError(t, err)
	require.NoError(t, holder.Reload(cfg))

	ctx, err = router.RouteSQL("select * from t_order where order_id = 7")
	require.NoError(t, err)
	assert.Equal(t, "ds0[t_order->t_order_1]", ctx.String())
}

func TestConcurrentRouteAndReload(t *testing.T) {
	holder := rule.NewHolder(testkit.OrderRule(t))
	router := NewRouter(holder)
	rules := []*rule.ShardingRule{testkit.OrderRule(t), testkit.RuleForTest(t, singleSourceYAML)}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ctx, err := router.RouteSQL("select * from t_order where order_id = ?", j)
				if err != nil {
					errs <- err
					return
				}
				if ctx.Len() != 1 {
					errs <- assert.AnError
					return
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		holder.Store(rules[i%2])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestExplain(t *testing.T) {
	router, _ := newTestRouter(t)
	stmt := testkit.BindForTest("select * from t_order where order_id in (1, 7)", t)

	ex, err := router.Explain(stmt, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, engine.TypeStandard, ex.Engine)
	assert.False(t, ex.Conditions.IsEmpty())
	assert.Equal(t, 2, ex.Context.Len())
	assert.Same(t, stmt, ex.Statement)

	ex, err = router.Explain(testkit.BindForTest("show databases", t), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, engine.TypeDatabaseBroadcast, ex.Engine)
	assert.Equal(t, 3, ex.Context.Len())
}
