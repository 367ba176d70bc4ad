package domain

// NodeKind names the variant of a condensed-graph node.
type NodeKind string

const (
	KindOffice       NodeKind = "office"
	KindMale         NodeKind = "male"
	KindGroup        NodeKind = "group"
	KindGuardedGroup NodeKind = "guarded_group"
)

// Node is one atomic stop of the condensed routing graph. The set of
// implementations is closed: Office, MaleNode, Group and GuardedGroup.
//
// Members are in the fixed internal visiting order. Entry and Exit are the
// matrix indices where a vehicle enters and leaves the node.
type Node interface {
	ID() string
	Kind() NodeKind
	Members() []Employee
	Entry() int
	Exit() int
	Demand() int
	// InternalTime is the travel plus dwell needed to go from the first
	// member to the last, excluding the last member's own dwell.
	InternalTime() float64
	// ServiceTime is the time a vehicle spends "at" the node.
	ServiceTime() float64

	sealed()
}

// Office is the depot, always node 0.
type Office struct {
	Location Coordinates
}

func (Office) ID() string            { return "OFFICE" }
func (Office) Kind() NodeKind        { return KindOffice }
func (Office) Members() []Employee   { return nil }
func (Office) Entry() int            { return OfficeIdx }
func (Office) Exit() int             { return OfficeIdx }
func (Office) Demand() int           { return 0 }
func (Office) InternalTime() float64 { return 0 }
func (Office) ServiceTime() float64  { return 0 }
func (Office) sealed()               {}

// MaleNode is a male rider travelling without a paired female.
type MaleNode struct {
	Rider Employee
}

func (n MaleNode) ID() string           { return "Male_" + n.Rider.ID }
func (MaleNode) Kind() NodeKind         { return KindMale }
func (n MaleNode) Members() []Employee  { return []Employee{n.Rider} }
func (n MaleNode) Entry() int           { return n.Rider.OriginalIdx }
func (n MaleNode) Exit() int            { return n.Rider.OriginalIdx }
func (MaleNode) Demand() int            { return 1 }
func (MaleNode) InternalTime() float64  { return 0 }
func (n MaleNode) ServiceTime() float64 { return n.Rider.Service() }
func (MaleNode) sealed()                {}

// chain is the shared body of multi-rider nodes.
type chain struct {
	riders   []Employee
	internal float64
}

func newChain(riders []Employee, m *TravelMatrix) chain {
	c := chain{riders: append([]Employee(nil), riders...)}
	for k := 0; k+1 < len(c.riders); k++ {
		c.internal += c.riders[k].Service() + m.TimeAt(c.riders[k].OriginalIdx, c.riders[k+1].OriginalIdx)
	}
	return c
}

func (c chain) Members() []Employee   { return append([]Employee(nil), c.riders...) }
func (c chain) Entry() int            { return c.riders[0].OriginalIdx }
func (c chain) Exit() int             { return c.riders[len(c.riders)-1].OriginalIdx }
func (c chain) InternalTime() float64 { return c.internal }
func (c chain) ServiceTime() float64  { return c.internal + c.riders[len(c.riders)-1].Service() }
func (c chain) Size() int             { return len(c.riders) }

// Group is one or more females escorted by a male, who is dropped last.
type Group struct {
	chain
}

// NewGroup builds a Group from females already in visiting order and their escort.
func NewGroup(females []Employee, escort Employee, m *TravelMatrix) Group {
	riders := make([]Employee, 0, len(females)+1)
	riders = append(riders, females...)
	riders = append(riders, escort)
	return Group{chain: newChain(riders, m)}
}

func (g Group) ID() string       { return "Group_" + g.Escort().ID }
func (Group) Kind() NodeKind     { return KindGroup }
func (g Group) Demand() int      { return len(g.riders) }
func (g Group) Escort() Employee { return g.riders[len(g.riders)-1] }
func (Group) sealed()            {}

// GuardedGroup is a set of females sharing a vehicle with a reserved guard seat.
type GuardedGroup struct {
	chain
}

// NewGuardedGroup builds a GuardedGroup from females already in visiting order.
func NewGuardedGroup(females []Employee, m *TravelMatrix) GuardedGroup {
	return GuardedGroup{chain: newChain(females, m)}
}

func (g GuardedGroup) ID() string   { return "GuardedGroup_" + g.riders[0].ID }
func (GuardedGroup) Kind() NodeKind { return KindGuardedGroup }
func (g GuardedGroup) Demand() int  { return len(g.riders) + 1 }
func (GuardedGroup) sealed()        {}

// IsPinned reports whether the node must own a vehicle by itself.
func IsPinned(n Node) bool {
	k := n.Kind()
	return k == KindGroup || k == KindGuardedGroup
}
