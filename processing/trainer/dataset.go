package trainer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Dataset is the subset of the framework's dataset descriptor the trainer
// checks before launching a run.
type Dataset struct {
	Path  string    `yaml:"path"`
	Train string    `yaml:"train"`
	Val   string    `yaml:"val"`
	Test  string    `yaml:"test"`
	Names ClassList `yaml:"names"`
}

// ClassList accepts both forms the descriptor allows for `names`: a sequence,
// or a mapping from class index to name.
type ClassList []string

func (c *ClassList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*c = names
		return nil

	case yaml.MappingNode:
		var byIndex map[int]string
		if err := node.Decode(&byIndex); err != nil {
			return err
		}
		idx := make([]int, 0, len(byIndex))
		for i := range byIndex {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		names := make([]string, 0, len(idx))
		for _, i := range idx {
			names = append(names, byIndex[i])
		}
		*c = names
		return nil

	default:
		return fmt.Errorf("names: expected list or mapping, got %s", node.Tag)
	}
}

func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset descriptor: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset descriptor %s: %w", path, err)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset descriptor %s: %w", path, err)
	}
	return &ds, nil
}

func (d *Dataset) Validate() error {
	var errs []error
	if d.Train == "" {
		errs = append(errs, errors.New("missing train split"))
	}
	if d.Val == "" {
		errs = append(errs, errors.New("missing val split"))
	}
	if len(d.Names) == 0 {
		errs = append(errs, errors.New("no class names"))
	}
	return errors.Join(errs...)
}
