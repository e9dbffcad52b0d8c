package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btang/toolchat/internal/entities"
)

type LookupPersonInput struct {
	Name string `json:"name" jsonschema_description:"First name of the person, e.g. brian"`
}

// Person is one directory record. Several people can share a first name;
// the stable ID is what disambiguates them downstream.
type Person struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Department string   `json:"department"`
	JobTitle   string   `json:"job_title"`
	Email      string   `json:"email"`
	City       string   `json:"city"`
	Notes      []string `json:"notes,omitempty"`
}

var directory = []Person{
	{
		ID: "brian1", FirstName: "Brian", LastName: "Wang",
		Department: "Engineering", JobTitle: "Solutions Architect",
		Email: "brian.wang@company.com", City: "Boston",
		Notes: []string{"Works at AWS", "Leads cloud migration projects"},
	},
	{
		ID: "brian2", FirstName: "Brian", LastName: "Johnson",
		Department: "Marketing", JobTitle: "Campaign Manager",
		Email: "brian.johnson@company.com", City: "Seattle",
		Notes: []string{"Plays hockey with you", "Manages product launch events"},
	},
	{
		ID: "brian3", FirstName: "Brian", LastName: "Smith",
		Department: "Accounting", JobTitle: "Financial Analyst",
		Email: "brian.smith@company.com", City: "Chicago",
		Notes: []string{"Specializes in tax compliance", "Recently transferred from NY office"},
	},
	{
		ID: "kristina1", FirstName: "Kristina", LastName: "Lopez",
		Department: "Design", JobTitle: "UX Researcher",
		Email: "kristina.lopez@company.com", City: "San Francisco",
		Notes: []string{"Focuses on accessibility", "Leads cross-functional user studies"},
	},
	{
		ID: "kristina2", FirstName: "Kristina", LastName: "Patel",
		Department: "Sales", JobTitle: "Account Executive",
		Email: "kristina.patel@company.com", City: "Austin",
		Notes: []string{"Top-performing sales rep in Q2", "Speaks at industry conferences"},
	},
	{
		ID: "jocelyn1", FirstName: "Jocelyn", LastName: "Rivera",
		Department: "Engineering", JobTitle: "Platform Engineer",
		Email: "jocelyn.rivera@company.com", City: "San Francisco",
		Notes: []string{"On-call lead for the data platform"},
	},
}

// LookupPersonDefinition returns the people-directory tool bound to the
// given entity store: every matched record is upserted (attributes and
// notes) so the store can later render a disambiguation context block.
func LookupPersonDefinition(store *entities.Store) ToolDefinition {
	return ToolDefinition{
		Name:        "lookup_person",
		Description: "Look up people by first name in the company directory. Several people may share a name; results include a stable id, attributes, and notes for disambiguation.",
		InputSchema: GenerateSchema[LookupPersonInput](),
		Function: func(input json.RawMessage) (string, error) {
			var in LookupPersonInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			name := strings.TrimSpace(in.Name)

			var matches []Person
			for _, p := range directory {
				if strings.EqualFold(p.FirstName, name) {
					matches = append(matches, p)
				}
			}
			if len(matches) == 0 {
				return "", fmt.Errorf("name %q not in directory", name)
			}

			for _, p := range matches {
				store.Upsert(p.ID, "first_name", p.FirstName)
				store.Upsert(p.ID, "last_name", p.LastName)
				store.Upsert(p.ID, "department", p.Department)
				store.Upsert(p.ID, "job_title", p.JobTitle)
				store.Upsert(p.ID, "email", p.Email)
				store.Upsert(p.ID, "city", p.City)
				existing, _ := store.Get(p.ID)
				for _, note := range p.Notes {
					// Notes append, so skip ones already recorded by an
					// earlier lookup. The upserts above established the
					// id; AddNote cannot see an unknown entity here.
					if !containsNote(existing.Notes, note) {
						_ = store.AddNote(p.ID, note)
					}
				}
			}

			b, err := json.Marshal(matches)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

func containsNote(notes []string, note string) bool {
	for _, n := range notes {
		if n == note {
			return true
		}
	}
	return false
}
