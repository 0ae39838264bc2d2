package statem

// A Ref is an opaque handle standing in for a value the real system only
// produces at execution time, such as a process id or a ticket number.
// Model code can use it as a map key.
type Ref int

// A RefSource hands out fresh references during generation.
type RefSource interface {
	Fresh() Ref
}

// A Counter is a RefSource handing out consecutive references starting
// at zero. The zero value is ready for use. A Counter is not safe for
// concurrent use; each generation run owns its own.
type Counter struct {
	next Ref
}

func (c *Counter) Fresh() Ref {
	r := c.next
	c.next++
	return r
}
