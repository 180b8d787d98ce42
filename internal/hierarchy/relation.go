// Package hierarchy models the parent/child relations between lab entities
// and performs the structural changes (cascade, detach) they imply.
package hierarchy

import "fmt"

type Kind string

const (
	KindProject    Kind = "project"
	KindSubProject Kind = "sub_project"
	KindCategory   Kind = "category"
	KindExperiment Kind = "experiment"
	KindTask       Kind = "task"
	KindResource   Kind = "resource"
	KindUser       Kind = "user"
)

var tables = map[Kind]string{
	KindProject:    "projects",
	KindSubProject: "sub_projects",
	KindCategory:   "categories",
	KindExperiment: "experiments",
	KindTask:       "tasks",
	KindResource:   "resources",
	KindUser:       "users",
}

func (k Kind) Table() string {
	return tables[k]
}

func (k Kind) Valid() bool {
	_, ok := tables[k]
	return ok
}

type RelationType int

const (
	// Ownership: the child cannot exist without its parent and is deleted with it.
	Ownership RelationType = iota + 1
	// Association: an optional reference, cleared when the parent is deleted.
	Association
)

func (t RelationType) String() string {
	switch t {
	case Ownership:
		return "ownership"
	case Association:
		return "association"
	}
	return fmt.Sprintf("RelationType(%d)", int(t))
}

// Relation is a foreign key Column on Child's table pointing at Parent.
type Relation struct {
	Parent Kind
	Child  Kind
	Column string
	Type   RelationType
}

var relations = []Relation{
	{Parent: KindProject, Child: KindSubProject, Column: "project_id", Type: Ownership},
	{Parent: KindSubProject, Child: KindCategory, Column: "sub_project_id", Type: Ownership},
	{Parent: KindCategory, Child: KindExperiment, Column: "category_id", Type: Association},
}

func Relations() []Relation {
	out := make([]Relation, len(relations))
	copy(out, relations)
	return out
}

// ParentOf returns the relation in which child is the child.
func ParentOf(child Kind) (Relation, bool) {
	for _, r := range relations {
		if r.Child == child {
			return r, true
		}
	}
	return Relation{}, false
}

// ChildrenOf returns the relations of the given type in which parent is the parent.
func ChildrenOf(parent Kind, typ RelationType) []Relation {
	var out []Relation
	for _, r := range relations {
		if r.Parent == parent && r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}
