package ical

// ComponentType is the type identity of a component.
type ComponentType string

const (
	ComponentRaw      ComponentType = "Raw"
	ComponentCalendar ComponentType = "Calendar"
	ComponentEvent    ComponentType = "Event"
	ComponentTodo     ComponentType = "Todo"
	ComponentJournal  ComponentType = "Journal"
	ComponentFreeBusy ComponentType = "FreeBusy"
	ComponentAlarm    ComponentType = "Alarm"
	ComponentTimezone ComponentType = "Timezone"
	ComponentStandard ComponentType = "StandardTime"
	ComponentDaylight ComponentType = "DaylightSavingTime"
)

// Component is a named container of properties and child components.
type Component struct {
	Type ComponentType
	// Name is only meaningful for raw components.
	Name string

	order    []PropertyType
	props    map[PropertyType][]Property
	children []*Component
}

func NewComponent(t ComponentType) *Component {
	return &Component{Type: t}
}

// NewRawComponent keeps a component no scribe claimed.
func NewRawComponent(name string) *Component {
	return &Component{Type: ComponentRaw, Name: name}
}

// NewCalendar returns an empty VCALENDAR.
func NewCalendar() *Component {
	return NewComponent(ComponentCalendar)
}

// AddProperty appends p under its type.
func (c *Component) AddProperty(p Property) {
	t := p.PropertyType()
	if c.props == nil {
		c.props = make(map[PropertyType][]Property)
	}
	if _, ok := c.props[t]; !ok {
		c.order = append(c.order, t)
	}
	c.props[t] = append(c.props[t], p)
}

// SetProperty replaces every property of p's type with p.
func (c *Component) SetProperty(p Property) {
	c.RemoveProperties(p.PropertyType())
	c.AddProperty(p)
}

// PrependProperty replaces every property of p's type with p and moves the
// type to the front.
func (c *Component) PrependProperty(p Property) {
	t := p.PropertyType()
	c.RemoveProperties(t)
	c.AddProperty(p)
	c.order = append([]PropertyType{t}, c.order[:len(c.order)-1]...)
}

// Property returns the first property of type t, or nil.
func (c *Component) Property(t PropertyType) Property {
	ps := c.props[t]
	if len(ps) == 0 {
		return nil
	}
	return ps[0]
}

// PropertiesOf returns the properties of type t.
func (c *Component) PropertiesOf(t PropertyType) []Property {
	return append([]Property(nil), c.props[t]...)
}

// Properties returns every property, grouped by type in first-insertion order.
func (c *Component) Properties() []Property {
	var out []Property
	for _, t := range c.order {
		out = append(out, c.props[t]...)
	}
	return out
}

// PropertyTypes lists the property types present, in first-insertion order.
func (c *Component) PropertyTypes() []PropertyType {
	return append([]PropertyType(nil), c.order...)
}

func (c *Component) RemoveProperties(t PropertyType) {
	if _, ok := c.props[t]; !ok {
		return
	}
	delete(c.props, t)
	for i, o := range c.order {
		if o == t {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
}

// RemoveProperty removes a single instance.
func (c *Component) RemoveProperty(p Property) {
	t := p.PropertyType()
	ps := c.props[t]
	for i, q := range ps {
		if q == p {
			ps = append(ps[:i:i], ps[i+1:]...)
			break
		}
	}
	if len(ps) == 0 {
		c.RemoveProperties(t)
		return
	}
	c.props[t] = ps
}

// AddComponent appends child. It panics if child is c or one of its
// ancestors would become its own descendant.
func (c *Component) AddComponent(child *Component) {
	if child == c || child.contains(c) {
		panic("ical: component cycle")
	}
	c.children = append(c.children, child)
}

func (c *Component) contains(target *Component) bool {
	for _, ch := range c.children {
		if ch == target || ch.contains(target) {
			return true
		}
	}
	return false
}

// Components returns child components in insertion order.
func (c *Component) Components() []*Component {
	return append([]*Component(nil), c.children...)
}

// ComponentsOf returns children of type t.
func (c *Component) ComponentsOf(t ComponentType) []*Component {
	var out []*Component
	for _, ch := range c.children {
		if ch.Type == t {
			out = append(out, ch)
		}
	}
	return out
}

// HasComponent reports whether child is a direct child of c.
func (c *Component) HasComponent(child *Component) bool {
	for _, ch := range c.children {
		if ch == child {
			return true
		}
	}
	return false
}

func (c *Component) RemoveComponent(child *Component) {
	for i, ch := range c.children {
		if ch == child {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			return
		}
	}
}

// Text returns the value of the first Text property of type t.
func (c *Component) Text(t PropertyType) string {
	if p, ok := c.Property(t).(*Text); ok {
		return p.Value
	}
	return ""
}

// Walk visits c and its descendants depth-first, parents before children.
func (c *Component) Walk(fn func(*Component)) {
	fn(c)
	for _, ch := range c.children {
		ch.Walk(fn)
	}
}
