package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.yaml.in/yaml/v3"
)

// LoadDocument reads a YAML or JSON resume file. Shape problems inside the file never fail
// the load: unknown keys are ignored and scalar types are coerced.
func LoadDocument(path string) (*Document, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume: %w", err)
	}

	return DecodeDocument(raw), nil
}

// LoadJobPosting reads a YAML or JSON job posting file. An empty path yields a nil posting.
func LoadJobPosting(path string) (*JobPosting, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	raw, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job posting: %w", err)
	}

	return DecodeJobPosting(raw), nil
}

// DecodeDocument converts a loosely typed map into a Document. Sections that cannot be
// decoded are treated as absent.
func DecodeDocument(raw map[string]any) *Document {
	doc := &Document{}
	if raw == nil {
		return doc
	}

	for key, value := range raw {
		decodeSection(map[string]any{key: value}, doc, &Document{})
	}

	return doc
}

// DecodeJobPosting converts a loosely typed map into a JobPosting.
func DecodeJobPosting(raw map[string]any) *JobPosting {
	if raw == nil {
		return nil
	}

	job := &JobPosting{}
	for key, value := range raw {
		decodeSection(map[string]any{key: value}, job, &JobPosting{})
	}

	return job
}

// decodeSection decodes one top-level key into target only when it decodes cleanly into
// scratch. mapstructure keeps the good elements of a partially bad slice, so decoding
// straight into target would leave zero-valued entries behind.
func decodeSection(section map[string]any, target, scratch any) {
	if err := Decode(section, scratch); err != nil {
		return
	}
	_ = Decode(section, target)
}

// Decode runs a lenient mapstructure decode of input into target.
func Decode(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	value := strings.TrimSpace(reflect.ValueOf(data).String())
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return nil, fmt.Errorf("unsupported time format %q", value)
}

// ReadFile reads a YAML or JSON file into a generic map. Keys keep their case and dots,
// so free-form names such as metric categories survive unchanged.
func ReadFile(path string) (map[string]any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}

	raw := map[string]any{}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return raw, nil
}
