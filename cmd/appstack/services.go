package appstack

import (
	"fmt"
	"os"
	"slices"
	"sort"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/compose"
	"github.com/railwayapp/appstack/internal/environment"
	"github.com/railwayapp/appstack/internal/export"
	"github.com/spf13/cobra"
)

var servicesJSON bool

var servicesCmd = &cobra.Command{
	Use:       "services [explorer|portal]",
	Short:     "List the services of a generated compose file with secrets redacted",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(apps.Explorer), string(apps.Portal)},
	Run: func(cmd *cobra.Command, args []string) {
		kind := apps.Explorer
		if len(args) > 0 {
			kind = apps.Kind(args[0])
		}
		if err := runServices(cmd, kind); err != nil {
			fmt.Fprintf(os.Stderr, "services failed: %v\n", err)
			os.Exit(1)
		}
	},
}

type serviceSummary struct {
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Ports       []string          `json:"ports,omitempty"`
	DependsOn   []string          `json:"depends_on,omitempty"`
	Environment []environment.Var `json:"environment,omitempty"`
}

func summarize(project *composeTypes.Project) []serviceSummary {
	env := environment.FromProject(project)

	var out []serviceSummary
	for name, svc := range project.Services {
		s := serviceSummary{Name: name, Image: svc.Image}
		for _, p := range svc.Ports {
			s.Ports = append(s.Ports, fmt.Sprintf("%s:%d", p.Published, p.Target))
		}
		for dep := range svc.DependsOn {
			s.DependsOn = append(s.DependsOn, dep)
		}
		slices.Sort(s.DependsOn)
		for _, v := range env {
			if v.Service == name {
				s.Environment = append(s.Environment, v)
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func runServices(cmd *cobra.Command, kind apps.Kind) error {
	store, _, _, err := openStore(settings)
	if err != nil {
		return err
	}
	path := store.ComposePath(kind)
	data, err := store.ReadBytes(path)
	if err != nil {
		return fmt.Errorf("no generated %s compose file, run `appstack %s` first: %w", kind, kind, err)
	}
	project, err := compose.Load(cmd.Context(), string(kind), path, data)
	if err != nil {
		return err
	}
	services := summarize(project)

	if servicesJSON {
		output, err := export.NewJSONExporter().Export(services)
		if err != nil {
			return fmt.Errorf("JSON export failed: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%d services in %s:\n", len(services), path)
	for _, s := range services {
		fmt.Printf("  - %s: %s\n", s.Name, s.Image)
		if len(s.Ports) > 0 {
			fmt.Printf("    Ports: %v\n", s.Ports)
		}
		if len(s.DependsOn) > 0 {
			fmt.Printf("    Depends on: %v\n", s.DependsOn)
		}
		for _, v := range s.Environment {
			fmt.Printf("    %s=%s\n", v.Name, v.Value)
		}
	}
	return nil
}

func init() {
	servicesCmd.Flags().BoolVar(&servicesJSON, "json", false, "print services as JSON")
	rootCmd.AddCommand(servicesCmd)
}
