package vm

// ---------------------------------------------------------------------------
// Class: coil class representation and method dispatch
// ---------------------------------------------------------------------------

// Primitive is a method implemented in Go. Dunder protocol hooks
// (__index__, __eq__, __lt__, __gt__, __repr__) are ordinary primitives
// installed on a class, so user-defined classes can override any of them.
type Primitive func(vm *VM, recv Value, args []Value) (Value, error)

// Class represents a coil class.
type Class struct {
	Name       string // Class name
	Superclass *Class // Parent class (nil for Object)

	methods map[string]Primitive // selector -> method
}

// NewClass creates a class with the given name and superclass.
func NewClass(name string, superclass *Class) *Class {
	return &Class{
		Name:       name,
		Superclass: superclass,
		methods:    make(map[string]Primitive),
	}
}

// AddMethod installs (or overrides) a method under the given selector.
func (c *Class) AddMethod(selector string, fn Primitive) {
	c.methods[selector] = fn
}

// LookupMethod finds a method by selector, walking the superclass chain.
// Returns nil if no class in the chain defines it.
func (c *Class) LookupMethod(selector string) Primitive {
	for current := c; current != nil; current = current.Superclass {
		if m, ok := current.methods[selector]; ok {
			return m
		}
	}
	return nil
}

// HasMethod returns true if the class or any superclass defines the selector.
func (c *Class) HasMethod(selector string) bool {
	return c.LookupMethod(selector) != nil
}

// IsSubclassOf returns true if c is a subclass of other (or is the same class).
func (c *Class) IsSubclassOf(other *Class) bool {
	for current := c; current != nil; current = current.Superclass {
		if current == other {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// ClassTable
// ---------------------------------------------------------------------------

// ClassTable maps class names to classes.
type ClassTable struct {
	classes map[string]*Class
}

// NewClassTable creates an empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*Class)}
}

// Register adds a class to the table.
func (ct *ClassTable) Register(c *Class) {
	ct.classes[c.Name] = c
}

// Lookup finds a class by name. Returns nil if not registered.
func (ct *ClassTable) Lookup(name string) *Class {
	return ct.classes[name]
}
