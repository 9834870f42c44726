package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/auspex/internal/models"
)

// TestCase pairs a post with the output the engine is expected to produce.
type TestCase struct {
	Input    models.PostInput        `json:"input"`
	Expected models.PredictionOutput `json:"expected"`
}

// LoadCases reads an ordered case list from a JSON or YAML file, selected by
// extension. YAML documents are converted to JSON before decoding so the
// tagged-union handling in the models package applies to both formats.
func LoadCases(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML cases: %w", err)
		}
	case ".json":
	default:
		return nil, fmt.Errorf("unsupported cases file extension: %s", filepath.Ext(path))
	}

	var cases []TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("cases file %s contains no cases", path)
	}
	return cases, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
