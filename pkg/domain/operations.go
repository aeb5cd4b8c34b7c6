package domain

import "fmt"

// Component is a declaration inserted into a leaf block: `<Type> <Name>[(<Args>)];`.
type Component struct {
	Type string `json:"type" mapstructure:"type"`
	Name string `json:"name" mapstructure:"name"`
	Args string `json:"args,omitempty" mapstructure:"args"`
}

// Validate checks the required fields.
func (c Component) Validate() error {
	if c.Type == "" || c.Name == "" {
		return fmt.Errorf("component requires type and name")
	}
	return nil
}

// Declaration renders the component as a single statement.
func (c Component) Declaration() string {
	if c.Args != "" {
		return fmt.Sprintf("%s %s(%s);", c.Type, c.Name, c.Args)
	}
	return fmt.Sprintf("%s %s;", c.Type, c.Name)
}

// Parameter is a parameter declaration: `parameter <Type> <Name> = <Value>[ "<Annotation>"];`.
type Parameter struct {
	Type       string `json:"type" mapstructure:"type"`
	Name       string `json:"name" mapstructure:"name"`
	Value      string `json:"value" mapstructure:"value"`
	Annotation string `json:"annotation,omitempty" mapstructure:"annotation"`
}

// Validate checks the required fields.
func (p Parameter) Validate() error {
	if p.Type == "" || p.Name == "" || p.Value == "" {
		return fmt.Errorf("parameter requires type, name and value")
	}
	return nil
}

// Declaration renders the parameter as a single statement.
func (p Parameter) Declaration() string {
	s := fmt.Sprintf("parameter %s %s = %s", p.Type, p.Name, p.Value)
	if p.Annotation != "" {
		s += fmt.Sprintf(" %q", p.Annotation)
	}
	return s + ";"
}

// Connection names the two endpoints of a connect statement.
type Connection struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Validate checks both endpoints are present.
func (c Connection) Validate() error {
	if c.A == "" || c.B == "" {
		return fmt.Errorf("connection requires two endpoints")
	}
	return nil
}

// Statement renders `connect(A, B);`.
func (c Connection) Statement() string {
	return fmt.Sprintf("connect(%s, %s);", c.A, c.B)
}

func (c Connection) String() string {
	return fmt.Sprintf("(%s, %s)", c.A, c.B)
}
