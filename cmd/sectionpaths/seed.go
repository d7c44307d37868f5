package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sectionpaths/internal/entity"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load a taxonomy fixture and run it through the alias pipeline",
	Long: `Loads terms and nodes from a YAML fixture, persists them and feeds each
through the insert pipeline so aliases are generated as if the entities had
been created one by one.

Fixture ids are local to the file: parents and term references use them, and
they are remapped to the ids the store assigns. Terms must appear before
their children.

Fixture format:

  langcode: en
  terms:
    - id: 1
      label: Grand parent
      vocabulary: sections
    - id: 2
      label: Child
      vocabulary: sections
      parent: 1
  nodes:
    - id: 10
      title: Child article
      bundle: article
      term: 2`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type fixtureTerm struct {
	ID         int64  `yaml:"id"`
	Label      string `yaml:"label"`
	Vocabulary string `yaml:"vocabulary"`
	Parent     int64  `yaml:"parent"`
	Langcode   string `yaml:"langcode"`
}

type fixtureNode struct {
	ID       int64  `yaml:"id"`
	Title    string `yaml:"title"`
	Bundle   string `yaml:"bundle"`
	Term     int64  `yaml:"term"`
	Langcode string `yaml:"langcode"`
}

type fixture struct {
	Langcode string        `yaml:"langcode"`
	Terms    []fixtureTerm `yaml:"terms"`
	Nodes    []fixtureNode `yaml:"nodes"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var fix fixture
	if err := yaml.Unmarshal(data, &fix); err != nil {
		return fmt.Errorf("parsing fixture %s: %w", args[0], err)
	}
	if fix.Langcode == "" {
		fix.Langcode = "en"
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	termIDs := make(map[int64]int64, len(fix.Terms))
	for _, ft := range fix.Terms {
		langcode := ft.Langcode
		if langcode == "" {
			langcode = fix.Langcode
		}
		parentID := int64(0)
		if ft.Parent != 0 {
			mapped, ok := termIDs[ft.Parent]
			if !ok {
				return fmt.Errorf("term %d references unknown parent %d; parents must come first", ft.ID, ft.Parent)
			}
			parentID = mapped
		}

		term := &entity.Term{
			Label:      ft.Label,
			Vocabulary: ft.Vocabulary,
			ParentID:   parentID,
			Langcode:   langcode,
		}
		if err := a.terms.Create(term); err != nil {
			return err
		}
		termIDs[ft.ID] = term.ID

		if err := a.disp.TermInserted(term); err != nil {
			return err
		}
	}

	for _, fn := range fix.Nodes {
		langcode := fn.Langcode
		if langcode == "" {
			langcode = fix.Langcode
		}
		termID := int64(0)
		if fn.Term != 0 {
			mapped, ok := termIDs[fn.Term]
			if !ok {
				return fmt.Errorf("node %d references unknown term %d", fn.ID, fn.Term)
			}
			termID = mapped
		}

		node := &entity.Node{
			Title:    fn.Title,
			Bundle:   fn.Bundle,
			TermID:   termID,
			Langcode: langcode,
		}
		if err := a.nodes.Create(node); err != nil {
			return err
		}
		if err := a.disp.NodeInserted(node); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d terms and %d nodes.\n", len(fix.Terms), len(fix.Nodes))
	return nil
}
