package scribe

// XCalElement is the neutral tree a property value is written to and read
// from in xCal. The xcal package maps it onto encoding/xml.
type XCalElement struct {
	Name     string
	Text     string
	Children []*XCalElement
}

func NewXCalElement(name string) *XCalElement {
	return &XCalElement{Name: name}
}

// Append adds a leaf child holding text and returns it.
func (e *XCalElement) Append(name, text string) *XCalElement {
	child := &XCalElement{Name: name, Text: text}
	e.Children = append(e.Children, child)
	return child
}

// AppendElement adds an empty child and returns it.
func (e *XCalElement) AppendElement(name string) *XCalElement {
	child := &XCalElement{Name: name}
	e.Children = append(e.Children, child)
	return child
}

// Child returns the first child called name.
func (e *XCalElement) Child(name string) *XCalElement {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// First returns the text of the first child called name.
func (e *XCalElement) First(name string) (string, bool) {
	if c := e.Child(name); c != nil {
		return c.Text, true
	}
	return "", false
}

// All returns the text of every child called name.
func (e *XCalElement) All(name string) []string {
	var out []string
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c.Text)
		}
	}
	return out
}

// FirstValueChild returns the first child that is not the parameters block.
func (e *XCalElement) FirstValueChild() *XCalElement {
	for _, c := range e.Children {
		if c.Name != "parameters" {
			return c
		}
	}
	return nil
}
