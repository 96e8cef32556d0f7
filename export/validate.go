package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValidationKind classifies why an import payload was rejected.
type ValidationKind string

const (
	InvalidFormat      ValidationKind = "invalid-format"
	MissingVersion     ValidationKind = "missing-version"
	MissingDataSection ValidationKind = "missing-data-section"
	WrongArrayType     ValidationKind = "wrong-array-type"
	InvalidTask        ValidationKind = "invalid-task"
)

// ValidationError is the typed rejection Validate returns. Import never
// mutates store state when validation fails.
type ValidationError struct {
	Kind   ValidationKind
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("import validation failed: %s", e.Kind)
	}
	return fmt.Sprintf("import validation failed: %s: %s", e.Kind, e.Detail)
}

// Parsed is a validated import payload. The presence flags record which
// sections the payload actually carried, so the importer only replaces
// collections the file contained.
type Parsed struct {
	Envelope      Envelope
	HasTasks      bool
	HasProjects   bool
	HasCategories bool
	HasSettings   bool
}

// Validate checks the raw payload against the envelope contract and returns
// the parsed result, or a *ValidationError describing the first problem
// found.
func Validate(raw []byte) (*Parsed, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &ValidationError{Kind: InvalidFormat, Detail: "payload is not a JSON object"}
	}
	if _, ok := top["version"]; !ok {
		return nil, &ValidationError{Kind: MissingVersion, Detail: "missing version information"}
	}
	dataRaw, ok := top["data"]
	if !ok || isNull(dataRaw) {
		return nil, &ValidationError{Kind: MissingDataSection, Detail: "missing data section"}
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(dataRaw, &data); err != nil {
		return nil, &ValidationError{Kind: MissingDataSection, Detail: "data section is not a JSON object"}
	}

	parsed := &Parsed{}
	for _, section := range []struct {
		key     string
		present *bool
	}{
		{"tasks", &parsed.HasTasks},
		{"projects", &parsed.HasProjects},
		{"categories", &parsed.HasCategories},
	} {
		sectionRaw, ok := data[section.key]
		if !ok || isNull(sectionRaw) {
			continue
		}
		if !isArray(sectionRaw) {
			return nil, &ValidationError{
				Kind:   WrongArrayType,
				Detail: fmt.Sprintf("%s must be an array", section.key),
			}
		}
		*section.present = true
	}
	if settingsRaw, ok := data["settings"]; ok && !isNull(settingsRaw) {
		parsed.HasSettings = true
	}

	if err := json.Unmarshal(raw, &parsed.Envelope); err != nil {
		return nil, &ValidationError{Kind: InvalidFormat, Detail: err.Error()}
	}
	for _, task := range parsed.Envelope.Data.Tasks {
		if task.ID == "" || task.Title == "" {
			return nil, &ValidationError{
				Kind:   InvalidTask,
				Detail: "every task must carry a non-empty id and title",
			}
		}
	}
	return parsed, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
