package sheetssql

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient is an in-memory spreadsheet keyed by tab title
type memClient struct {
	tabs      map[string][][]interface{}
	order     []string
	appendErr error
}

func newMemClient() *memClient {
	return &memClient{tabs: make(map[string][][]interface{})}
}

func (m *memClient) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	title, _, _ := strings.Cut(sheetRange, "!")
	rows, ok := m.tabs[title]
	if !ok {
		return nil, fmt.Errorf("no sheet %s", title)
	}
	if strings.Contains(sheetRange, "!") && len(rows) > 2 {
		rows = rows[:2]
	}
	return rows, nil
}

func (m *memClient) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if _, ok := m.tabs[sheetRange]; !ok {
		return fmt.Errorf("no sheet %s", sheetRange)
	}
	m.tabs[sheetRange] = append(m.tabs[sheetRange], values...)
	return nil
}

func (m *memClient) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	m.tabs[sheetTitle] = [][]interface{}{}
	m.order = append(m.order, sheetTitle)
	return int64(len(m.order)), nil
}

func (m *memClient) SheetTitles(spreadsheetID string) ([]string, error) {
	return m.order, nil
}

// asStrings mimics the Sheets API returning formatted cell text
func asStrings(rows [][]interface{}) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out
}

func TestNewDB_CreatesMissingTables(t *testing.T) {
	client := newMemClient()
	schema, err := SchemaFromModels(TestRun{}, TestShiftAssignment{})
	require.NoError(t, err)

	_, err = NewDB(client, "db", schema)
	require.NoError(t, err)

	assert.Equal(t, []string{"test_run", "test_shift_assignment"}, client.order)
	assert.Equal(t, [][]interface{}{
		{"id", "created", "shift_count"},
		{"uuid", "timestamp", "int"},
	}, client.tabs["test_run"])
}

func TestNewDB_VerifiesExistingTables(t *testing.T) {
	client := newMemClient()
	schema, err := SchemaFromModels(TestRun{})
	require.NoError(t, err)

	_, err = NewDB(client, "db", schema)
	require.NoError(t, err)

	// Reconnecting to the same spreadsheet must not recreate the table
	_, err = NewDB(client, "db", schema)
	require.NoError(t, err)
	assert.Len(t, client.order, 1)

	client.tabs["test_run"][1][2] = "text"
	_, err = NewDB(client, "db", schema)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected type 'int'")
}

func TestInsertAndGetTableAs(t *testing.T) {
	client := newMemClient()
	schema, err := SchemaFromModels(TestShiftAssignment{})
	require.NoError(t, err)

	db, err := NewDB(client, "db", schema)
	require.NoError(t, err)

	rows := []TestShiftAssignment{
		{ID: "a1", RunID: "r1", ShiftDate: "2024-01-01", EmployeeName: "Ann", Hours: 4.5},
		{ID: "a2", RunID: "r1", ShiftDate: "2024-01-02", EmployeeName: "Bo", Hours: 8},
	}
	require.NoError(t, InsertModels(db, rows))
	require.NoError(t, InsertModel(db, TestShiftAssignment{ID: "a3", RunID: "r2", EmployeeName: "Cy"}))

	client.tabs["test_shift_assignment"] = asStrings(client.tabs["test_shift_assignment"])

	got, err := GetTableAs[TestShiftAssignment](db, "test_shift_assignment")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, rows[0], got[0])
	assert.Equal(t, rows[1], got[1])
	assert.Equal(t, "Cy", got[2].EmployeeName)
	assert.Equal(t, 0.0, got[2].Hours)
}

func TestGetTableAs_EmptyTable(t *testing.T) {
	client := newMemClient()
	schema, err := SchemaFromModels(TestRun{})
	require.NoError(t, err)

	db, err := NewDB(client, "db", schema)
	require.NoError(t, err)

	got, err := GetTableAs[TestRun](db, "test_run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetTableAs_BadCell(t *testing.T) {
	client := newMemClient()
	schema, err := SchemaFromModels(TestRun{})
	require.NoError(t, err)

	db, err := NewDB(client, "db", schema)
	require.NoError(t, err)

	client.tabs["test_run"] = append(client.tabs["test_run"], []interface{}{"r1", "now", "many"})

	_, err = GetTableAs[TestRun](db, "test_run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row 3, column shift_count")
}

func TestInsertRows_UnknownTable(t *testing.T) {
	db, err := NewDB(newMemClient(), "db", &Schema{})
	require.NoError(t, err)

	assert.Error(t, db.InsertRows("missing", [][]interface{}{{"x"}}))
}

func TestSetFieldValue(t *testing.T) {
	var s struct {
		Text  string
		Count int
		Hours float64
		Flag  bool
	}
	v := reflect.ValueOf(&s).Elem()

	require.NoError(t, setFieldValue(v.Field(0), "hello"))
	require.NoError(t, setFieldValue(v.Field(1), "42"))
	require.NoError(t, setFieldValue(v.Field(2), 4.5))
	require.NoError(t, setFieldValue(v.Field(3), "TRUE"))

	assert.Equal(t, "hello", s.Text)
	assert.Equal(t, 42, s.Count)
	assert.Equal(t, 4.5, s.Hours)
	assert.True(t, s.Flag)

	require.NoError(t, setFieldValue(v.Field(1), ""))
	assert.Equal(t, 0, s.Count)

	assert.Error(t, setFieldValue(v.Field(1), "not a number"))
	assert.Error(t, setFieldValue(v.Field(0), []int{1}))
}
