package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var onceReg sync.Once
var instance Registry

type Registry interface {
	TryLoad(tp Type, name string) (Provider, bool)
	Load(tp Type, name string) Provider
	Register(tp Type, provider Provider) error
	LoadOrStore(tp Type, name string, creation func() Provider) (actual Provider, loaded bool)
	Delete(tp Type, name string)
	// Names lists the registered provider names of a type, sorted.
	Names(tp Type) []string
}

func DefaultRegistry() Registry {
	onceReg.Do(func() {
		instance = NewRegistry()
	})
	return instance
}

func NewRegistry() Registry {
	return &registry{}
}

type registry struct {
	mp sync.Map
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func getFullName(tp Type, name string) string {
	return fmt.Sprintf("%d:%s", int(tp), normalizeName(name))
}

func (r *registry) TryLoad(tp Type, name string) (Provider, bool) {
	v, ok := r.mp.Load(getFullName(tp, name))
	if !ok {
		return nil, false
	}
	p, ok := v.(Provider)
	return p, ok
}

func (r *registry) Load(tp Type, name string) Provider {
	p, _ := r.TryLoad(tp, name)
	return p
}

func (r *registry) Register(tp Type, provider Provider) error {
	if provider == nil {
		return errors.New("provider can not be null")
	}
	n := normalizeName(provider.GetName())
	if n == "" {
		return errors.New("provider name can not be empty")
	}
	r.mp.Store(getFullName(tp, n), provider)
	return nil
}

func (r *registry) LoadOrStore(tp Type, name string, creation func() Provider) (actual Provider, loaded bool) {
	v, loaded := r.mp.LoadOrStore(getFullName(tp, name), creation())
	return v.(Provider), loaded
}

func (r *registry) Delete(tp Type, name string) {
	r.mp.Delete(getFullName(tp, name))
}

func (r *registry) Names(tp Type) []string {
	prefix := fmt.Sprintf("%d:", int(tp))
	var names []string
	r.mp.Range(func(key, value interface{}) bool {
		k := key.(string)
		if strings.HasPrefix(k, prefix) {
			names = append(names, value.(Provider).GetName())
		}
		return true
	})
	sort.Strings(names)
	return names
}
