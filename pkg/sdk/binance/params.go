package binance

import (
	"net/url"
	"strings"
)

type param struct {
	key   string
	value string
}

// Params is an insertion-ordered parameter set. The encoded form is both the
// signed payload and the query string sent on the wire, so order matters.
type Params struct {
	items []param
}

func NewParams() *Params {
	return &Params{}
}

// Add appends key=value, or replaces the value in place when key is already
// present so the key keeps its original position.
func (p *Params) Add(key, value string) *Params {
	for i := range p.items {
		if p.items[i].key == key {
			p.items[i].value = value
			return p
		}
	}
	p.items = append(p.items, param{key: key, value: value})
	return p
}

func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, it := range p.items {
		if it.key == key {
			return it.value, true
		}
	}
	return "", false
}

func (p *Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.items))
	for _, it := range p.items {
		keys = append(keys, it.key)
	}
	return keys
}

// Clone returns an independent copy; a nil receiver yields an empty set.
func (p *Params) Clone() *Params {
	out := &Params{}
	if p == nil {
		return out
	}
	out.items = make([]param, len(p.items))
	copy(out.items, p.items)
	return out
}

// Encode renders the set as application/x-www-form-urlencoded in insertion
// order. url.Values.Encode is not used because it sorts by key.
func (p *Params) Encode() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for i, it := range p.items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(it.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(it.value))
	}
	return b.String()
}

// redacted renders the set for logs with the signature masked.
func (p *Params) redacted() string {
	c := p.Clone()
	if c.Has(ParamSignature) {
		c.Add(ParamSignature, "***")
	}
	return c.Encode()
}
