package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mktcontext/internal/logging"
)

// Load returns the default templates with any overrides from the given YAML
// file merged on top. An empty path returns defaults; a missing file is an
// error since the user configured it explicitly.
func Load(path string) (Templates, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return templates, fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}

	var overrides Templates
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return templates, fmt.Errorf("failed to parse prompts file %s: %w", path, err)
	}

	merged := 0
	if overrides.System != "" {
		templates.System = overrides.System
		merged++
	}
	if overrides.Commentary != "" {
		templates.Commentary = overrides.Commentary
		merged++
	}
	if overrides.Review != "" {
		templates.Review = overrides.Review
		merged++
	}
	if overrides.DataGatherer != "" {
		templates.DataGatherer = overrides.DataGatherer
		merged++
	}
	if overrides.Research != "" {
		templates.Research = overrides.Research
		merged++
	}

	logging.Get(logging.CategoryBoot).Info("loaded %d prompt overrides from %s", merged, path)
	return templates, nil
}
