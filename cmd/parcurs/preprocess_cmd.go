package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parcurs-ro/parcurs/pkg/configuration"
	"github.com/parcurs-ro/parcurs/pkg/pipeline"
	"github.com/parcurs-ro/parcurs/pkg/schema"
)

type preprocessOptions struct {
	professions []schema.Profession
}

func newPreprocessCmd() *cobra.Command {
	var opts preprocessOptions
	var professionFlag string
	var all bool

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Standardize names, resolve identities and assign person IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configuration.Use()
			defer cfg.Unload()

			p := pipeline.New(cfg, cfg.Logger())
			for _, prof := range opts.professions {
				if err := p.Run(prof); err != nil {
					return withCode(exitPipeline, fmt.Errorf("preprocess %s: %w", prof, err))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&professionFlag, "profession", "", "Profession to preprocess (judges|prosecutors|notaries|executori)")
	cmd.Flags().BoolVar(&all, "all", false, "Preprocess every profession")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if all {
			opts.professions = schema.All()
			return nil
		}
		if strings.TrimSpace(professionFlag) == "" {
			return withCode(exitUsage, fmt.Errorf("either --profession or --all is required"))
		}
		prof, err := schema.Parse(strings.TrimSpace(professionFlag))
		if err != nil {
			return withCode(exitUsage, fmt.Errorf("invalid --profession: %w", err))
		}
		opts.professions = []schema.Profession{prof}
		return nil
	}

	return cmd
}
