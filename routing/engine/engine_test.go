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

package engine

import (
	"testing"

	"github.com/endink/go-sharding-router/routing/condition"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
	"github.com/endink/go-sharding-router/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectForTest(t *testing.T, r *rule.ShardingRule, qc *statement.QueryContext) RouteEngine {
	conds, err := condition.New(r, qc)
	require.NoError(t, err, qc.Statement.SQL)
	return Select(r, qc, conds)
}

func routeForTest(t *testing.T, sql string, params ...interface{}) (RouteEngine, *route.Context) {
	r := testkit.OrderRule(t)
	e := selectForTest(t, r, testkit.QueryForTest(t, sql, params...))
	ctx, err := e.Route(r)
	require.NoError(t, err, sql)
	return e, ctx
}

func unitStrings(ctx *route.Context) []string {
	units := ctx.Units()
	result := make([]string, len(units))
	for i, u := range units {
		result[i] = u.String()
	}
	return result
}

func TestSelectEngineType(t *testing.T) {
	r := testkit.OrderRule(t)
	cases := []struct {
		sql  string
		want Type
	}{
		{"begin", TypeDatabaseBroadcast},
		{"commit", TypeDatabaseBroadcast},

		{"create table t_product(product_id int)", TypeTableBroadcast},
		{"create table t_unknown(id int)", TypeIgnore},
		{"create table t_unknown(id int, foreign key (id) references t_config(id))", TypeTableBroadcast},
		{"create database db1", TypeTableBroadcast},
		{"drop index idx_a on t_order", TypeTableBroadcast},

		{"use db1", TypeIgnore},
		{"set autocommit = 1", TypeDatabaseBroadcast},
		{"show databases", TypeDatabaseBroadcast},
		{"show columns from t_order", TypeUnicast},
		{"show columns from t_unknown", TypeIgnore},
		{"show tables", TypeDataSourceGroupBroadcast},
		{"analyze table t_order", TypeTableBroadcast},
		{"analyze table t_unknown", TypeIgnore},

		{"grant select on db1.t_order to 'u'@'%'", TypeTableBroadcast},
		{"grant select on db1.t_unknown to 'u'@'%'", TypeIgnore},
		{"grant select on *.* to 'u'@'%'", TypeInstanceBroadcast},
		{"create user 'u'@'%' identified by 'p'", TypeInstanceBroadcast},

		{"select 1", TypeUnicast},
		{"select * from t_unknown", TypeIgnore},
		{"select * from t_config", TypeUnicast},
		{"update t_config set v = 1", TypeTableBroadcast},
		{"select * from t_order where order_id = 7", TypeStandard},
		{"select * from t_order o join t_config c on o.status = c.k", TypeStandard},
		{"select * from t_order o join t_order_item i on o.order_id = i.order_id", TypeStandard},
		{"select * from t_order o join t_user u on o.user_id = u.user_id", TypeComplex},
		{"delete from t_order where order_id = 1 and order_id = 2", TypeUnicast},
		{"select * from t_order where order_id = 1 and order_id = 2", TypeStandard},
	}
	for _, c := range cases {
		t.Run(c.sql, func(t *testing.T) {
			e := selectForTest(t, r, testkit.QueryForTest(t, c.sql))
			assert.Equal(t, c.want, e.Type())
		})
	}
}

func TestSelectKindsWithoutSyntax(t *testing.T) {
	r := testkit.OrderRule(t)
	order := []statement.TableRef{{Name: "t_order"}}
	cases := []struct {
		name string
		stmt *statement.Bound
		want Type
	}{
		{"function", &statement.Bound{Kind: statement.KindCreateFunction, Tables: order}, TypeDatabaseBroadcast},
		{"procedure", &statement.Bound{Kind: statement.KindDropProcedure}, TypeDatabaseBroadcast},
		{"tablespace", &statement.Bound{Kind: statement.KindAlterTablespace}, TypeInstanceBroadcast},
		{"resource group", &statement.Bound{Kind: statement.KindSetResourceGroup}, TypeInstanceBroadcast},
		{"reset", &statement.Bound{Kind: statement.KindResetParameter}, TypeDatabaseBroadcast},
		{"optimize", &statement.Bound{Kind: statement.KindOptimizeTable, Tables: order}, TypeTableBroadcast},
		{"close all cursors", &statement.Bound{Kind: statement.KindCloseCursor, Cursor: &statement.Cursor{CloseAll: true}}, TypeDatabaseBroadcast},
		{"fetch cursor", &statement.Bound{Kind: statement.KindFetchCursor, Tables: order}, TypeStandard},
		{"fetch bound cursor", &statement.Bound{Kind: statement.KindFetchCursor, Tables: []statement.TableRef{{Name: "t_order"}, {Name: "t_order_item"}}}, TypeStandard},
		{"fetch unbound cursor", &statement.Bound{Kind: statement.KindFetchCursor, Tables: []statement.TableRef{{Name: "t_order"}, {Name: "t_user"}}}, TypeIgnore},
		{"close unmanaged cursor", &statement.Bound{Kind: statement.KindCloseCursor, Cursor: &statement.Cursor{Name: "c"}, Tables: []statement.TableRef{{Name: "t_unknown"}}}, TypeIgnore},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := Select(r, statement.NewQueryContext(c.stmt), condition.NewConditions())
			assert.Equal(t, c.want, e.Type())
		})
	}
}

func TestUnmanagedTablesAreIgnoredInEveryCategory(t *testing.T) {
	r := testkit.OrderRule(t)
	for _, sql := range []string{
		"select * from t_unknown",
		"update t_unknown set a = 1",
		"insert into t_unknown(a) values (1)",
		"alter table t_unknown add column c int",
		"show columns from t_unknown",
		"grant select on db1.t_unknown to 'u'@'%'",
	} {
		e := selectForTest(t, r, testkit.QueryForTest(t, sql))
		assert.Equal(t, TypeIgnore, e.Type(), sql)
	}
}

func TestOnlyUnmanagedTablesRouteNowhere(t *testing.T) {
	for _, sql := range []string{
		"select * from t_a a join t_b b on a.id = b.id",
		"delete from t_unknown where a = 1",
		"insert into t_unknown(a) values (1), (2)",
	} {
		e, ctx := routeForTest(t, sql)
		assert.Equal(t, TypeIgnore, e.Type(), sql)
		assert.True(t, ctx.IsEmpty(), sql)
	}
}

func TestBroadcastOnlyStatements(t *testing.T) {
	e, ctx := routeForTest(t, "select * from t_config c join t_unknown u on c.k = u.k")
	assert.Equal(t, TypeUnicast, e.Type())
	assert.True(t, ctx.IsSingleRouting())

	e, ctx = routeForTest(t, "delete from t_config where k = 'a'")
	assert.Equal(t, TypeTableBroadcast, e.Type())
	assert.Equal(t, []string{"ds0[t_config]", "ds1[t_config]", "ds2[t_config]"}, unitStrings(ctx))
}

func TestDrivingTable(t *testing.T) {
	r := testkit.OrderRule(t)
	e := selectForTest(t, r, testkit.QueryForTest(t, "select * from t_order o join t_order_item i on o.order_id = i.order_id where i.order_id = 5"))
	require.IsType(t, &Standard{}, e)
	assert.Equal(t, "t_order_item", e.(*Standard).LogicTable)

	e = selectForTest(t, r, testkit.QueryForTest(t, "select * from t_order_item i join t_order o on o.order_id = i.order_id"))
	assert.Equal(t, "t_order_item", e.(*Standard).LogicTable)
}

func TestStandardSingleUnit(t *testing.T) {
	e, ctx := routeForTest(t, "select * from t_order where order_id = 7")
	assert.Equal(t, TypeStandard, e.Type())
	require.Equal(t, 1, ctx.Len())
	assert.Equal(t, []string{"ds1[t_order->t_order_3]"}, unitStrings(ctx))
}

func TestStandardFullRoute(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_order where status = 'a'")
	assert.Equal(t, []string{
		"ds0[t_order->t_order_0]",
		"ds0[t_order->t_order_1]",
		"ds1[t_order->t_order_2]",
		"ds1[t_order->t_order_3]",
	}, unitStrings(ctx))
}

func TestStandardInList(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_order where order_id in (?, ?)", 1, 2)
	testkit.MustMatchRoute(t, []string{"ds1[t_order->t_order_2]", "ds0[t_order->t_order_1]"}, ctx)
	assert.Equal(t, []string{"ds0", "ds1"}, ctx.DataSourceNames())
}

func TestStandardOrConditions(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_order where order_id = 4 or order_id = 8")
	assert.Equal(t, []string{"ds0[t_order->t_order_0]"}, unitStrings(ctx))
	assert.Len(t, ctx.OriginalDataNodes(), 2)
}

func TestStandardBindingTables(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_order o join t_order_item i on o.order_id = i.order_id where o.order_id = 2")
	require.Equal(t, 1, ctx.Len())
	u := ctx.Units()[0]
	assert.Equal(t, "ds1", u.DataSource.ActualName)
	actual, ok := u.ActualTable("t_order_item")
	assert.True(t, ok)
	assert.Equal(t, "t_order_item_2", actual)
	testkit.AssertStrArrayEquals(t, []string{"t_order_item", "t_order"}, ctx.LogicTables())
	testkit.MustMatchUnits(t, []*route.Unit{
		route.NewUnit("ds1",
			route.Mapper{LogicName: "t_order", ActualName: "t_order_2"},
			route.Mapper{LogicName: "t_order_item", ActualName: "t_order_item_2"}),
	}, ctx)
}

func TestStandardAlwaysFalseSelect(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_order where order_id = 1 and order_id = 2")
	assert.True(t, ctx.IsEmpty())
}

func TestStandardRange(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_range where amount >= 100 and amount < 150")
	assert.Equal(t, []string{"ds0[t_range->t_range_1]"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "select * from t_range where amount > 150")
	assert.Equal(t, []string{"ds0[t_range->t_range_1]", "ds0[t_range->t_range_2]"}, unitStrings(ctx))
}

func TestStandardInsertRows(t *testing.T) {
	_, ctx := routeForTest(t, "insert into t_order(order_id, status) values (1, 'a'), (5, 'b'), (3, 'c')")
	assert.Equal(t, []string{"ds0[t_order->t_order_1]", "ds1[t_order->t_order_3]"}, unitStrings(ctx))
	assert.Len(t, ctx.OriginalDataNodes(), 3)
}

func TestStandardHint(t *testing.T) {
	r := testkit.OrderRule(t)
	qc := testkit.QueryForTest(t, "select * from t_log")
	qc.Hint = &statement.HintValueContext{TableValues: map[string][]interface{}{"t_log": {int64(3)}}}
	ctx, err := selectForTest(t, r, qc).Route(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds0[t_log->t_log_1]"}, unitStrings(ctx))

	qc.Hint = nil
	ctx, err = selectForTest(t, r, qc).Route(r)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Len())
}

func TestStandardUnroutable(t *testing.T) {
	r := testkit.OrderRule(t)
	for _, c := range []struct {
		sql    string
		params []interface{}
	}{
		{"select * from t_order where order_id = ?", []interface{}{nil}},
		{"select * from t_order where order_id = 'abc'", nil},
		{"select * from t_order where order_id > 10", nil},
	} {
		e := selectForTest(t, r, testkit.QueryForTest(t, c.sql, c.params...))
		_, err := e.Route(r)
		require.Error(t, err, c.sql)
		assert.True(t, rerrors.Is(err, rerrors.UnroutableCondition), "%s: %v", c.sql, err)
	}
}

func TestComplexCartesian(t *testing.T) {
	e, ctx := routeForTest(t, "select * from t_order o join t_user u on o.user_id = u.user_id where o.order_id = 2")
	assert.Equal(t, TypeComplex, e.Type())
	assert.Equal(t, []string{"ds1[t_order->t_order_2, t_user]"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "select * from t_order o join t_user u on o.user_id = u.user_id")
	testkit.MustMatchRoute(t, []string{
		"ds1[t_order->t_order_3, t_user]",
		"ds1[t_order->t_order_2, t_user]",
		"ds0[t_order->t_order_1, t_user]",
		"ds0[t_order->t_order_0, t_user]",
	}, ctx)
}

const smallCombinationYAML = `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
tables:
  t_s:
    actual-data-nodes: ds0.t_s_${0..1}
    table-strategy:
      inline:
        sharding-columns: id
        algorithm-expression: t_s_${id % 2}
  t_m:
    actual-data-nodes: ds0.t_m_${0..1}
    table-strategy:
      inline:
        sharding-columns: a, b
        algorithm-expression: t_m_${(a + b) % 2}
props:
  max-cartesian-combinations: 8
`

func TestStandardLongInListIsNotCapped(t *testing.T) {
	r := testkit.RuleForTest(t, smallCombinationYAML)
	e := selectForTest(t, r, testkit.QueryForTest(t, "select * from t_s where id in (1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)"))
	require.Equal(t, TypeStandard, e.Type())
	ctx, err := e.Route(r)
	require.NoError(t, err)
	testkit.MustMatchRoute(t, []string{"ds0[t_s->t_s_0]", "ds0[t_s->t_s_1]"}, ctx)
}

func TestStandardMultiColumnCombinationLimit(t *testing.T) {
	r := testkit.RuleForTest(t, smallCombinationYAML)
	e := selectForTest(t, r, testkit.QueryForTest(t, "select * from t_m where a in (1, 2, 3) and b in (1, 2, 3)"))
	_, err := e.Route(r)
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape), "%v", err)

	e = selectForTest(t, r, testkit.QueryForTest(t, "select * from t_m where a in (1, 2) and b in (1, 2, 3, 4)"))
	ctx, err := e.Route(r)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Len())
}

func TestComplexWithBindingGroup(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_order o join t_order_item i on o.order_id = i.order_id join t_user u on o.user_id = u.user_id where o.order_id = 1 and u.user_id = 2")
	assert.Equal(t, []string{"ds0[t_order->t_order_1, t_order_item->t_order_item_1, t_user]"}, unitStrings(ctx))
}

func TestComplexWithoutCommonDataSource(t *testing.T) {
	r := testkit.OrderRule(t)
	e := selectForTest(t, r, testkit.QueryForTest(t, "select * from t_order o join t_user u on o.user_id = u.user_id where o.order_id = 2 and u.user_id = 4"))
	_, err := e.Route(r)
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape), "%v", err)
}

const smallCartesianYAML = `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
tables:
  t_a:
    actual-data-nodes: ds0.t_a_${0..3}
  t_b:
    actual-data-nodes: ds0.t_b_${0..3}
props:
  max-cartesian-combinations: 8
`

func TestComplexCartesianLimit(t *testing.T) {
	r := testkit.RuleForTest(t, smallCartesianYAML)
	e := selectForTest(t, r, testkit.QueryForTest(t, "select * from t_a, t_b"))
	require.Equal(t, TypeComplex, e.Type())
	_, err := e.Route(r)
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape), "%v", err)
}

func TestTableBroadcast(t *testing.T) {
	e, ctx := routeForTest(t, "create table t_product(product_id int, name varchar(20))")
	assert.Equal(t, TypeTableBroadcast, e.Type())
	assert.Equal(t, []string{"ds0[t_product]", "ds1[t_product]"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "alter table t_config add column c int")
	assert.Equal(t, []string{"ds0[t_config]", "ds1[t_config]", "ds2[t_config]"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "create database db1")
	assert.Equal(t, []string{"ds0", "ds1", "ds2"}, unitStrings(ctx))
}

func TestBroadcastVariants(t *testing.T) {
	_, ctx := routeForTest(t, "set autocommit = 1")
	assert.Equal(t, []string{"ds0", "ds1", "ds2"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "create user 'u'@'%' identified by 'p'")
	assert.Equal(t, []string{"ds0", "ds1"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "show tables")
	assert.Equal(t, []string{"ds0", "ds1", "ds2"}, unitStrings(ctx))
}

func TestUnicast(t *testing.T) {
	e, ctx := routeForTest(t, "select 1")
	assert.Equal(t, TypeUnicast, e.Type())
	assert.Equal(t, []string{"ds0"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "show columns from t_order")
	assert.Equal(t, []string{"ds0[t_order->t_order_0]"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "select * from t_config")
	assert.Equal(t, []string{"ds0[t_config]"}, unitStrings(ctx))

	_, ctx = routeForTest(t, "delete from t_order where order_id = 1 and order_id = 2")
	assert.True(t, ctx.IsSingleRouting())
}

func TestUnicastPicksCommonDataSource(t *testing.T) {
	r := testkit.RuleForTest(t, `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
  ds1:
    instance: 127.0.0.1:3307
tables:
  t_a:
    actual-data-nodes: ds${0..1}.t_a
  t_b:
    actual-data-nodes: ds1.t_b_${0..1}
`)
	ctx, err := (&Unicast{Tables: []string{"t_a", "t_b"}}).Route(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds1[t_a->t_a, t_b->t_b_0]"}, unitStrings(ctx))

	r = testkit.RuleForTest(t, `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
  ds1:
    instance: 127.0.0.1:3307
tables:
  t_a:
    actual-data-nodes: ds0.t_a
  t_b:
    actual-data-nodes: ds1.t_b
`)
	_, err = (&Unicast{Tables: []string{"t_a", "t_b"}}).Route(r)
	assert.True(t, rerrors.Is(err, rerrors.UnsupportedStatementShape), "%v", err)
}

func TestIgnore(t *testing.T) {
	_, ctx := routeForTest(t, "select * from t_unknown")
	assert.True(t, ctx.IsEmpty())
}

func TestRouteIsDeterministic(t *testing.T) {
	r := testkit.OrderRule(t)
	sql := "select * from t_order o join t_user u on o.user_id = u.user_id where o.order_id in (1, 2, 3) and u.user_id in (1, 2)"
	var first string
	for i := 0; i < 10; i++ {
		e := selectForTest(t, r, testkit.QueryForTest(t, sql))
		ctx, err := e.Route(r)
		require.NoError(t, err)
		if i == 0 {
			first = ctx.String()
			continue
		}
		assert.Equal(t, first, ctx.String())
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "DataSourceGroupBroadcast", TypeDataSourceGroupBroadcast.String())
	assert.Equal(t, "Unknown", Type(0).String())
}
