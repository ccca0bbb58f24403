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
	"time"

	"github.com/endink/go-sharding-router/binder"
	"github.com/endink/go-sharding-router/logging"
	"github.com/endink/go-sharding-router/routing/condition"
	"github.com/endink/go-sharding-router/routing/engine"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/routing/validator"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
)

var logger = logging.GetLogger("router")

const rejectionLogInterval = time.Second

// Router validates and routes bound statements against the current sharding rule.
type Router struct {
	holder    *rule.Holder
	database  *atomic.Pointer[rule.Database]
	metrics   *Metrics
	rejectLog *logging.ThrottledLogger
}

type Option func(*Router)

// WithMetrics records every route and rejection in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithDatabase gives the DDL checks the known tables of the logical schema.
func WithDatabase(db *rule.Database) Option {
	return func(r *Router) {
		r.database.Store(db)
	}
}

func NewRouter(holder *rule.Holder, opts ...Option) *Router {
	r := &Router{
		holder:    holder,
		database:  atomic.NewPointer[rule.Database](nil),
		rejectLog: logging.NewThrottledLogger("rejection", logger, rejectionLogInterval),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetDatabase replaces the table metadata, nil turns the metadata checks off.
func (r *Router) SetDatabase(db *rule.Database) {
	r.database.Store(db)
}

// RouteSQL binds the sql text and routes it.
func (r *Router) RouteSQL(sql string, params ...interface{}) (*route.Context, error) {
	stmt, err := binder.Bind(sql)
	if err != nil {
		return nil, err
	}
	return r.Route(stmt, params, nil)
}

// Route validates the statement and computes its route units, a rejection is a *rerrors.Error.
func (r *Router) Route(stmt *statement.Bound, params []interface{}, hint *statement.HintValueContext) (*route.Context, error) {
	ex, err := r.Explain(stmt, params, hint)
	if err != nil {
		return nil, err
	}
	return ex.Context, nil
}

// Explanation is a route result with the decisions leading to it.
type Explanation struct {
	Statement  *statement.Bound
	Conditions *condition.Conditions
	Engine     engine.Type
	Context    *route.Context
}

// Explain routes the statement like Route and keeps the selected engine and the sharding conditions.
func (r *Router) Explain(stmt *statement.Bound, params []interface{}, hint *statement.HintValueContext) (*Explanation, error) {
	if stmt == nil {
		return nil, errors.New("statement to route can not be nil")
	}
	qc := &statement.QueryContext{Statement: stmt, Params: params, Hint: hint}
	ex, err := r.route(r.holder.Load(), qc)
	if err != nil {
		if kind := rerrors.KindOf(err); kind != 0 {
			r.metrics.rejected(kind)
			// throttled per kind
			r.rejectLog.Warnf(kind.String()+": %s rejected: %v, sql: %s", stmt.Kind, err, stmt.SQL)
		}
		return nil, err
	}
	r.metrics.routed(ex.Engine.String(), ex.Context.Len())
	logger.Debugf("%s routed by %s to %d units: %s", stmt.Kind, ex.Engine, ex.Context.Len(), ex.Context)
	return ex, nil
}

func (r *Router) route(sr *rule.ShardingRule, qc *statement.QueryContext) (*Explanation, error) {
	if sr == nil {
		return nil, errors.New("no sharding rule is loaded")
	}
	db := r.database.Load()
	conds, err := condition.New(sr, qc)
	if err != nil {
		return nil, err
	}
	v, validated := validator.Select(qc.Statement)
	if validated {
		if err = v.PreValidate(sr, qc, db, conds); err != nil {
			return nil, err
		}
	}
	e := engine.Select(sr, qc, conds)
	ctx, err := e.Route(sr)
	if err != nil {
		return nil, err
	}
	if validated {
		if err = v.PostValidate(sr, qc, db, ctx); err != nil {
			return nil, err
		}
	}
	return &Explanation{Statement: qc.Statement, Conditions: conds, Engine: e.Type(), Context: ctx}, nil
}
