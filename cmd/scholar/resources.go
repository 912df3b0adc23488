package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/scholar/pkg/subjects"
)

func newResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources <subject>",
		Short: "List the university resources of a subject",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			ret := make([]string, 0, len(subjects.All))
			for _, s := range subjects.All {
				if s != subjects.Default {
					ret = append(ret, string(s))
				}
			}
			return ret, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			resources, err := a.client.Resources(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(os.Stdout)
			defer func() {
				_ = enc.Close()
			}()
			return enc.Encode(resources)
		},
	}
}
