package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pathforge/pathforge/pkg/config"
	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/glob"
	"github.com/pathforge/pathforge/pkg/logging"
	"github.com/pathforge/pathforge/pkg/registry"
	"github.com/pathforge/pathforge/pkg/template"
	"github.com/pathforge/pathforge/pkg/tokens"
	"github.com/pathforge/pathforge/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadJob resolves the job configuration: the --config file when
// given, else the PATHFORGE_CONFIG file, else embedded defaults
// layered with PATHFORGE_* environment overrides.
func loadJob() (*config.Job, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("PATHFORGE_CONFIG")
	}
	return config.Load(path)
}

func openRegistry() (*registry.Registry, error) {
	job, err := loadJob()
	if err != nil {
		return nil, err
	}
	return registry.New(job), nil
}

func resolveFormat() (ui.Format, error) {
	format, err := ui.ParseFormat(outputFmt)
	if err != nil {
		return ui.FormatText, err
	}
	return format.Resolve(os.Stdout), nil
}

// parsePairs turns key=value arguments into a data map
func parsePairs(args []string) (map[string]string, error) {
	data := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf(MsgErrBadPair, arg)
		}
		data[key] = value
	}
	return data, nil
}

func emitMachine(format ui.Format, payload interface{}) error {
	switch format {
	case ui.FormatJSON:
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	case ui.FormatYAML:
		encoded, err := yaml.Marshal(payload)
		if err != nil {
			return err
		}
		fmt.Print(string(encoded))
	}
	return nil
}

func emitData(format ui.Format, data map[string]string) error {
	if format == ui.FormatJSON || format == ui.FormatYAML {
		return emitMachine(format, data)
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s = %s\n", ui.Render(ui.TokenName, key, format), data[key])
	}
	return nil
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: MsgTemplatesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			all, err := reg.All()
			if err != nil {
				return err
			}
			format, err := resolveFormat()
			if err != nil {
				return err
			}

			if format == ui.FormatJSON || format == ui.FormatYAML {
				payload := make(map[string][]string, len(all))
				for category, templates := range all {
					for _, tmpl := range templates {
						payload[category] = append(payload[category], tmpl.Pattern())
					}
				}
				return emitMachine(format, payload)
			}

			categories := make([]string, 0, len(all))
			for category := range all {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				fmt.Println(ui.Render(ui.Category, category, format))
				for _, tmpl := range all[category] {
					line := "  " + tmpl.Pattern()
					if tmpl.Alt() > 0 {
						line = ui.Render(ui.Dim, line, format)
					}
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: MsgTokensShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob()
			if err != nil {
				return err
			}
			format, err := resolveFormat()
			if err != nil {
				return err
			}

			rules := job.Rules()
			if format == ui.FormatJSON || format == ui.FormatYAML {
				return emitMachine(format, rules)
			}

			names := make([]string, 0, len(rules))
			for name := range rules {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n",
					ui.Render(ui.TokenName, name, format), describeRule(rules[name]))
			}
			return nil
		},
	}
}

// describeRule renders a token rule as a short human-readable summary
func describeRule(rule tokens.Rule) string {
	var parts []string
	if len(rule.Whitelist) > 0 {
		parts = append(parts, "whitelist="+strings.Join(rule.Whitelist, ","))
	}
	if len(rule.Allowed) > 0 {
		parts = append(parts, "allowed="+strings.Join(rule.Allowed, ","))
	}
	if rule.StrictLen && len(rule.Len) > 0 {
		lens := make([]string, len(rule.Len))
		for i, l := range rule.Len {
			lens[i] = fmt.Sprint(l)
		}
		parts = append(parts, "len="+strings.Join(lens, ","))
	}
	if rule.IsDigit {
		parts = append(parts, "digits")
	}
	if rule.NoSpace {
		parts = append(parts, "nospace")
	}
	if rule.NoUnderscore {
		parts = append(parts, "nounderscore")
	}
	if rule.Filter != "" {
		parts = append(parts, "filter="+rule.Filter)
	}
	if len(parts) == 0 {
		return "unconstrained"
	}
	return strings.Join(parts, ", ")
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <category> [key=value...]",
		Short: MsgFormatShort,
		Long:  MsgFormatLong,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			tmpl, err := reg.Primary(args[0])
			if err != nil {
				return err
			}
			if tmpl == nil {
				return errors.Newf(errors.ErrTokenNotFound, MsgErrNoTemplates, args[0])
			}
			data, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			path, err := tmpl.Format(data)
			if err != nil {
				return err
			}
			format, err := resolveFormat()
			if err != nil {
				return err
			}
			fmt.Println(ui.Render(ui.Path, path, format))
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <path>",
		Short: MsgParseShort,
		Long:  MsgParseLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.parse")
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			all, err := reg.All()
			if err != nil {
				return err
			}

			var templates []*template.Template
			for _, group := range all {
				templates = append(templates, group...)
			}
			template.Sort(templates)

			for _, tmpl := range templates {
				data, err := tmpl.Parse(args[0])
				if err != nil {
					continue
				}
				logger.Debug().
					Str("template", tmpl.Name()).
					Str("path", args[0]).
					Msg("Parsed path")

				format, err := resolveFormat()
				if err != nil {
					return err
				}
				if format == ui.FormatJSON || format == ui.FormatYAML {
					return emitMachine(format, struct {
						Template string            `json:"template" yaml:"template"`
						Data     map[string]string `json:"data" yaml:"data"`
					}{tmpl.Name(), data})
				}
				fmt.Println(ui.Render(ui.Header, tmpl.Name(), format))
				if err := emitData(format, data); err != nil {
					return err
				}
				if host := template.HostForExtn(data["extn"]); host != "" {
					fmt.Println(ui.Render(ui.Dim, "owned by "+host, format))
				}
				return nil
			}
			return errors.Newf(errors.ErrParseFailed,
				"no template matches path %q", args[0])
		},
	}
}

func newGlobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "glob [category...]",
		Short: MsgGlobShort,
		Long:  MsgGlobLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			all, err := reg.All()
			if err != nil {
				return err
			}

			var templates []*template.Template
			if len(args) == 0 {
				for _, group := range all {
					templates = append(templates, group...)
				}
			} else {
				for _, category := range args {
					group, ok := all[category]
					if !ok {
						return errors.Newf(
							errors.ErrTokenNotFound, MsgErrNoTemplates, category)
					}
					templates = append(templates, group...)
				}
			}

			matches, err := glob.Templates(cmd.Context(), glob.OS, templates)
			if err != nil {
				return err
			}

			format, err := resolveFormat()
			if err != nil {
				return err
			}
			if format == ui.FormatJSON || format == ui.FormatYAML {
				type matchOut struct {
					Template string `json:"template" yaml:"template"`
					Path     string `json:"path" yaml:"path"`
				}
				payload := make([]matchOut, 0, len(matches))
				for _, m := range matches {
					payload = append(payload, matchOut{m.Template.Name(), m.Path})
				}
				return emitMachine(format, payload)
			}

			if format == ui.FormatTerminal {
				table := pterm.TableData{{"TEMPLATE", "PATH"}}
				for _, m := range matches {
					table = append(table, []string{m.Template.Name(), m.Path})
				}
				return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
			}

			for _, m := range matches {
				fmt.Printf("%s\t%s\n", m.Template.Name(), m.Path)
			}
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <category> <token>",
		Short: MsgTokenShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			tmpl, err := reg.Primary(args[0])
			if err != nil {
				return err
			}
			if tmpl == nil {
				return errors.Newf(errors.ErrTokenNotFound, MsgErrNoTemplates, args[0])
			}
			values, err := glob.Token(cmd.Context(), glob.OS, tmpl, args[1])
			if err != nil {
				return err
			}
			format, err := resolveFormat()
			if err != nil {
				return err
			}
			if format == ui.FormatJSON || format == ui.FormatYAML {
				return emitMachine(format, values)
			}
			for _, value := range values {
				fmt.Println(value)
			}
			return nil
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "genconfig <name> <root>",
		Short: MsgGenConfigShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent(args[0], args[1])
			if err != nil {
				return err
			}
			if outFile == "" {
				fmt.Print(content)
				return nil
			}
			return os.WriteFile(outFile, []byte(content), 0o644)
		},
	}
	cmd.Flags().StringVar(&outFile, "write", "", "Write the config to this file instead of stdout")
	return cmd
}
