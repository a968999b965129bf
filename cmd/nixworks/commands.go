package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nixworks/nixworks"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/store"
)

func (a *app) runMNE2NIX(cmd *cobra.Command, args []string) error {
	opts, err := a.convertOptions()
	if err != nil {
		return err
	}
	if len(args) > 1 {
		opts = append(opts, nixworks.WithMontage(args[1]))
	}

	out, err := nixworks.ConvertFile(args[0], opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created NIX file at '%s'\n", out)

	return nil
}

func (a *app) runNIX2MNE(cmd *cobra.Command, args []string) error {
	out, err := nixworks.ExportBrainVision(args[0], nixworks.WithLogger(a.logger))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created BrainVision file at '%s'\n", out)

	return nil
}

// runInfo prints every root section of the file as a YAML mapping keyed by
// section name.
func (a *app) runInfo(cmd *cobra.Command, args []string) error {
	f, err := store.Open(args[0])
	if err != nil {
		return err
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, sec := range f.Sections() {
		rec, err := metadata.ReadTree(sec, f)
		if err != nil {
			return fmt.Errorf("section %q: %w", sec.Name(), err)
		}
		node, err := rec.MarshalYAML()
		if err != nil {
			return err
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sec.Name()},
			node.(*yaml.Node),
		)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}
