package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GameImport is the bulk provisioning document. The canonical shape carries
// tables as an array; DecodeGameImport also accepts the older object-keyed
// shape where tables and columns are maps keyed by name.
type GameImport struct {
	Name         string              `json:"name" validate:"required,max=100"`
	Participants []ParticipantImport `json:"participants" validate:"required,min=1,dive"`
	Tables       []TableImport       `json:"tables" validate:"omitempty,dive"`
}

type ParticipantImport struct {
	Name string `json:"name" validate:"required,max=100"`
}

type TableImport struct {
	Name    string         `json:"name" validate:"required,max=100"`
	Columns []ColumnImport `json:"columns" validate:"required,min=1,dive"`
}

type ColumnImport struct {
	Name      string           `json:"name" validate:"required,max=100"`
	Questions []QuestionImport `json:"questions" validate:"required,min=1,dive"`
}

type QuestionImport struct {
	Question string `json:"question" validate:"required,max=280"`
	Answer   string `json:"answer" validate:"required,max=280"`
	Points   *int   `json:"points" validate:"required"`
}

// importEnvelope defers the tables field so both accepted shapes can share
// the outer decode.
type importEnvelope struct {
	Name         string              `json:"name"`
	Participants []ParticipantImport `json:"participants"`
	Tables       json.RawMessage     `json:"tables"`
}

// DecodeGameImport parses and validates a provisioning document. Validation
// is all-or-nothing: any invalid question rejects the whole document before
// anything is created.
func DecodeGameImport(data []byte) (GameSpec, error) {
	var envelope importEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return GameSpec{}, fmt.Errorf("invalid json: %w", err)
	}
	doc := GameImport{Name: envelope.Name, Participants: envelope.Participants}
	if len(envelope.Tables) > 0 {
		tables, err := decodeTables(envelope.Tables)
		if err != nil {
			return GameSpec{}, err
		}
		doc.Tables = tables
	}
	if err := validate.Struct(doc); err != nil {
		return GameSpec{}, fmt.Errorf("invalid game document: %w", err)
	}
	return buildGameSpec(doc), nil
}

func decodeTables(raw json.RawMessage) ([]TableImport, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var tables []TableImport
		if err := json.Unmarshal(trimmed, &tables); err != nil {
			return nil, fmt.Errorf("invalid tables: %w", err)
		}
		return tables, nil
	}
	return decodeKeyedTables(trimmed)
}

// decodeKeyedTables handles the object-keyed legacy shape:
// {"Round 1": {"Science": [{question, answer, points}, ...]}}.
// Map iteration order is not stable, so keys are sorted to keep board layout
// deterministic across imports of the same document.
func decodeKeyedTables(raw []byte) ([]TableImport, error) {
	var keyed map[string]map[string][]QuestionImport
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("invalid tables: %w", err)
	}
	tableNames := make([]string, 0, len(keyed))
	for name := range keyed {
		tableNames = append(tableNames, name)
	}
	sort.Strings(tableNames)

	tables := make([]TableImport, 0, len(keyed))
	for _, tableName := range tableNames {
		columns := keyed[tableName]
		columnNames := make([]string, 0, len(columns))
		for name := range columns {
			columnNames = append(columnNames, name)
		}
		sort.Strings(columnNames)

		table := TableImport{Name: tableName}
		for _, columnName := range columnNames {
			table.Columns = append(table.Columns, ColumnImport{
				Name:      columnName,
				Questions: columns[columnName],
			})
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func buildGameSpec(doc GameImport) GameSpec {
	spec := GameSpec{Name: doc.Name}
	for _, participant := range doc.Participants {
		spec.Participants = append(spec.Participants, participant.Name)
	}
	for _, table := range doc.Tables {
		tableSpec := TableSpec{Name: table.Name}
		for _, column := range table.Columns {
			columnSpec := ColumnSpec{Name: column.Name}
			for _, question := range column.Questions {
				columnSpec.Questions = append(columnSpec.Questions, QuestionSpec{
					Question: question.Question,
					Answer:   question.Answer,
					Points:   *question.Points,
				})
			}
			tableSpec.Columns = append(tableSpec.Columns, columnSpec)
		}
		spec.Tables = append(spec.Tables, tableSpec)
	}
	return spec
}
