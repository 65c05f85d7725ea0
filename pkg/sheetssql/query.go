package sheetssql

import (
	"fmt"
	"reflect"
	"strconv"
)

// GetTableAs reads every data row of the table for T. The first two rows
// (headers and types) are skipped and cells are matched to fields by header.
func GetTableAs[T any](db *DB, tableName string) ([]T, error) {
	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) < 3 {
		return []T{}, nil
	}

	t := reflect.TypeOf((*T)(nil)).Elem()

	fieldByColumn := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("ssql_header"); name != "" {
			fieldByColumn[name] = i
		}
	}

	// cell index -> field index
	mapping := make(map[int]int)
	for cell, header := range values[0] {
		name, ok := header.(string)
		if !ok {
			continue
		}
		if fieldIdx, ok := fieldByColumn[name]; ok {
			mapping[cell] = fieldIdx
		}
	}

	results := make([]T, 0, len(values)-2)
	for rowIdx, row := range values[2:] {
		result := reflect.New(t).Elem()

		for cell, fieldIdx := range mapping {
			if cell >= len(row) || row[cell] == nil {
				continue
			}
			if err := setFieldValue(result.Field(fieldIdx), row[cell]); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+3, t.Field(fieldIdx).Tag.Get("ssql_header"), err)
			}
		}

		results = append(results, result.Interface().(T))
	}

	return results, nil
}

// setFieldValue converts a sheet cell to the field's Go type. Cells normally
// arrive as strings; unformatted numeric and boolean cells are accepted too.
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	var cell string
	switch v := cellValue.(type) {
	case string:
		cell = v
	case float64:
		cell = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		cell = strconv.FormatBool(v)
	default:
		return fmt.Errorf("unsupported cell value %T", cellValue)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cell)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := parseOrZero(cell, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := parseOrZero(cell, func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) })
		if err != nil {
			return fmt.Errorf("failed to parse uint: %w", err)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := parseOrZero(cell, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := parseOrZero(cell, strconv.ParseBool)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// parseOrZero treats an empty cell as the zero value
func parseOrZero[V any](s string, parse func(string) (V, error)) (V, error) {
	var zero V
	if s == "" {
		return zero, nil
	}
	return parse(s)
}

// rowOf flattens a tagged struct into cell values in column order
func rowOf(v reflect.Value) []interface{} {
	t := v.Type()
	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == "" {
			continue
		}
		row = append(row, v.Field(i).Interface())
	}
	return row
}

// InsertModel appends a struct as a row to its table
func InsertModel[T any](db *DB, model T) error {
	return InsertModels(db, []T{model})
}

// InsertModels appends structs as rows to their table in one request
func InsertModels[T any](db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		rows = append(rows, rowOf(reflect.ValueOf(model)))
	}

	return db.InsertRows(tableNameOf(reflect.TypeOf(models[0])), rows)
}
