package ical

import "strings"

const (
	ParamValue    = "VALUE"
	ParamTzid     = "TZID"
	ParamRole     = "ROLE"
	ParamCN       = "CN"
	ParamRSVP     = "RSVP"
	ParamRelated  = "RELATED"
	ParamEncoding = "ENCODING"
)

// Parameters is a case-insensitive, insertion-ordered multimap of property
// parameters. The zero value is empty and ready to use.
type Parameters struct {
	names  []string
	values map[string][]string
}

// NewParameters builds a parameter map from name/value pairs.
func NewParameters(pairs ...string) Parameters {
	var p Parameters
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Put(pairs[i], pairs[i+1])
	}
	return p
}

func normName(name string) string {
	return strings.ToUpper(name)
}

// Get returns the first value of name, or "".
func (p *Parameters) Get(name string) string {
	vs := p.values[normName(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// GetAll returns a copy of every value of name.
func (p *Parameters) GetAll(name string) []string {
	vs := p.values[normName(name)]
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// Has reports whether name has at least one value.
func (p *Parameters) Has(name string) bool {
	return len(p.values[normName(name)]) > 0
}

// Put appends value to name.
func (p *Parameters) Put(name, value string) {
	key := normName(name)
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[key]; !ok {
		p.names = append(p.names, key)
	}
	p.values[key] = append(p.values[key], value)
}

// Replace sets the values of name. No values removes it.
func (p *Parameters) Replace(name string, values ...string) {
	if len(values) == 0 {
		p.Remove(name)
		return
	}
	p.Remove(name)
	for _, v := range values {
		p.Put(name, v)
	}
}

// Remove deletes every value of name.
func (p *Parameters) Remove(name string) {
	key := normName(name)
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, n := range p.names {
		if n == key {
			p.names = append(p.names[:i:i], p.names[i+1:]...)
			break
		}
	}
}

// Names returns parameter names in insertion order.
func (p *Parameters) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of distinct names.
func (p *Parameters) Len() int {
	return len(p.names)
}

// Clone returns a deep copy.
func (p *Parameters) Clone() Parameters {
	var out Parameters
	for _, n := range p.names {
		for _, v := range p.values[n] {
			out.Put(n, v)
		}
	}
	return out
}

// Equal compares names, order and values.
func (p *Parameters) Equal(o *Parameters) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i, n := range p.names {
		if o.names[i] != n {
			return false
		}
		a, b := p.values[n], o.values[n]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// DataType returns the VALUE parameter.
func (p *Parameters) DataType() DataType {
	return ParseDataType(p.Get(ParamValue))
}

// SetDataType sets or clears the VALUE parameter.
func (p *Parameters) SetDataType(d DataType) {
	if d == DataTypeNone {
		p.Remove(ParamValue)
		return
	}
	p.Replace(ParamValue, d.Token())
}

func (p *Parameters) Tzid() string {
	return p.Get(ParamTzid)
}

func (p *Parameters) SetTzid(tzid string) {
	if tzid == "" {
		p.Remove(ParamTzid)
		return
	}
	p.Replace(ParamTzid, tzid)
}
