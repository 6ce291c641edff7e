package environment

import (
	"sort"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
)

// Var is one environment variable of one service.
type Var struct {
	Service   string `json:"service"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Type      string `json:"type"`
	Sensitive bool   `json:"sensitive"`
}

// FromProject lists the environment of every service in project, sorted by
// service then name, with sensitive values redacted.
func FromProject(project *composeTypes.Project) []Var {
	var vars []Var
	for name, service := range project.Services {
		for key, value := range service.Environment {
			val := ""
			if value != nil {
				val = *value
			}
			typ, sensitive := Classify(key, val)
			vars = append(vars, Var{
				Service:   name,
				Name:      key,
				Value:     Redact(key, val),
				Type:      typ.String(),
				Sensitive: sensitive,
			})
		}
	}
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].Service != vars[j].Service {
			return vars[i].Service < vars[j].Service
		}
		return vars[i].Name < vars[j].Name
	})
	return vars
}
