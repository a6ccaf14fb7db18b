// Package catalog supplies the ordered maintenance question list a session is
// constructed with, either the built-in robot checklist or a per-deployment
// YAML file.
package catalog

import (
	"fmt"
	"os"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"gopkg.in/yaml.v2"
)

type fileQuestion struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Prompt   string `yaml:"prompt"`
	Type     string `yaml:"type"`
	Evidence string `yaml:"evidence"`
}

type fileCatalog struct {
	Questions []fileQuestion `yaml:"questions"`
}

// LoadFile reads and validates a YAML question catalog.
func LoadFile(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse validates YAML catalog bytes.
func Parse(data []byte) (*domain.Catalog, error) {
	var file fileCatalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	questions := make([]domain.Question, 0, len(file.Questions))
	for _, q := range file.Questions {
		questions = append(questions, domain.Question{
			ID:       q.ID,
			Title:    q.Title,
			Prompt:   q.Prompt,
			Type:     domain.ResponseType(q.Type),
			Evidence: domain.EvidenceRequirement(q.Evidence),
		})
	}
	return domain.NewCatalog(questions)
}

// Default returns the standard robot maintenance checklist.
func Default() *domain.Catalog {
	c, err := domain.NewCatalog([]domain.Question{
		{
			ID:     "display_working",
			Title:  "Display Check",
			Prompt: "Is the display on and in good working order?",
		},
		{
			ID:     "robot_charging",
			Title:  "Charging System",
			Prompt: "Is the robot charging properly?",
		},
		{
			ID:     "charger_working",
			Title:  "Charger Check",
			Prompt: "Is the charger working correctly?",
		},
		{
			ID:       "damage_check",
			Title:    "Damage Assessment",
			Prompt:   "Is there any damage?",
			Evidence: domain.EvidenceImageIfYes,
		},
		{
			ID:     "door_1",
			Title:  "Door 1 Check",
			Prompt: "Is door 1 functioning properly?",
		},
		{
			ID:     "door_2",
			Title:  "Door 2 Check",
			Prompt: "Is door 2 functioning properly?",
		},
		{
			ID:     "door_3",
			Title:  "Door 3 Check",
			Prompt: "Is door 3 functioning properly?",
		},
		{
			ID:     "door_4",
			Title:  "Door 4 Check",
			Prompt: "Is door 4 functioning properly?",
		},
		{
			ID:     "lte_device",
			Title:  "LTE Device",
			Prompt: "Is the LTE device working properly?",
		},
		{
			ID:       "underside_inspection",
			Title:    "Underside Inspection",
			Prompt:   "Please check the underside of the robot for any debris, please clean around the wheels and make sure all ground contacts can reach the floor.",
			Evidence: domain.EvidenceImageAlways,
		},
	})
	if err != nil {
		// The built-in list is static; a validation failure is a programming error.
		panic(err)
	}
	return c
}
