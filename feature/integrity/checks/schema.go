package checks

import (
	"fmt"
	"reflect"
	"strings"

	"relationship-manager/core/database"
	"relationship-manager/feature/relationships/mirror"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a document store schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

type tableSpec struct {
	model   any
	columns []string
}

// documentTables are the tables written by the document mirror.
var documentTables = []tableSpec{
	{model: mirror.ArtistRecord{}, columns: mirror.ArtistColumns},
	{model: mirror.StudioRecord{}, columns: mirror.StudioColumns},
}

// CheckSchema verifies the document store schema using the mirror records as
// the source of truth.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	for _, spec := range documentTables {
		val := reflect.TypeOf(spec.model)
		tabler, ok := reflect.New(val).Interface().(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", val.Name())
		}
		tableName := tabler.TableName()

		tblReport := TableReport{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}

		missing, err := database.MissingColumns(db, tableName, spec.columns)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}
		if len(missing) > 0 {
			tblReport.MissingColumns = missing
			tblReport.Status = "error"
			report.Matched = false
		}

		actualCols, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}
		actualMap := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actualMap[col.Field] = col
		}

		// Only columns with an explicit type tag are type-checked.
		for i := 0; i < val.NumField(); i++ {
			gormTag := val.Field(i).Tag.Get("gorm")
			colName := parseGormColumn(gormTag)
			expType := strings.ToLower(parseGormType(gormTag))
			if colName == "" || expType == "" {
				continue
			}
			actCol, exists := actualMap[colName]
			if !exists {
				continue
			}
			// Soft check: mysql reports longtext/mediumtext for text columns.
			if !strings.Contains(actCol.Type, expType) {
				tblReport.TypeMismatches = append(tblReport.TypeMismatches,
					fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type))
				tblReport.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[tableName] = tblReport
	}

	return report, nil
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
