package generator

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type rosterFile struct {
	Members []Member `yaml:"members"`
}

// Roster is the read-only list of members tasks can be assigned to.
type Roster struct {
	members []Member
	byID    map[int]Member
}

func NewRoster(members []Member) (*Roster, error) {
	r := &Roster{byID: make(map[int]Member, len(members))}
	for _, m := range members {
		if m.ID <= 0 {
			return nil, fmt.Errorf("member %q: id must be positive", m.Name)
		}
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("member %d: name is required", m.ID)
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("member %d: duplicate id", m.ID)
		}
		if m.Avatar == "" {
			m.Avatar = initials(m.Name)
		}
		r.byID[m.ID] = m
		r.members = append(r.members, m)
	}
	return r, nil
}

// LoadRoster reads a YAML file of the form
//
//	members:
//	  - id: 1
//	    name: Alice Johnson
//	    role: Frontend Developer
//
// An empty path returns the default roster.
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return NewRoster(DefaultRoster())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if len(file.Members) == 0 {
		return nil, fmt.Errorf("roster file %s has no members", path)
	}
	return NewRoster(file.Members)
}

func (r *Roster) Members() []Member {
	return append([]Member(nil), r.members...)
}

func (r *Roster) Lookup(id int) (Member, bool) {
	m, ok := r.byID[id]
	return m, ok
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(part[:1]))
	}
	return b.String()
}
