package sheetsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/jakechorley/shift-roster/pkg/core/model"
)

// fakeSheetsAPI answers the handful of Sheets REST calls the client makes
type fakeSheetsAPI struct {
	mu       sync.Mutex
	titles   []string
	values   [][]interface{}
	calls    []string
	written  [][]interface{}
	appended [][]interface{}
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	f.calls = append(f.calls, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && !strings.Contains(path, "/values/"):
		sheets := make([]map[string]interface{}, 0, len(f.titles))
		for _, title := range f.titles {
			sheets = append(sheets, map[string]interface{}{"properties": map[string]interface{}{"title": title}})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"sheets": sheets})

	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]interface{}{"values": f.values})

	case strings.HasSuffix(path, ":batchUpdate"):
		json.NewEncoder(w).Encode(map[string]interface{}{
			"replies": []interface{}{
				map[string]interface{}{"addSheet": map[string]interface{}{"properties": map[string]interface{}{"sheetId": 7}}},
			},
		})

	case strings.HasSuffix(path, ":clear"):
		w.Write([]byte(`{}`))

	case strings.HasSuffix(path, ":append"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		w.Write([]byte(`{}`))

	case r.Method == http.MethodPut:
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.written = body.Values
		w.Write([]byte(`{}`))

	default:
		http.Error(w, "unexpected call", http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClientWithOptions(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func TestReadTable(t *testing.T) {
	api := &fakeSheetsAPI{
		values: [][]interface{}{
			{"Name", " Monday Availability "},
			{"Alice", "Both"},
			{"Bob"},
		},
	}
	client := newTestClient(t, api)

	table, err := client.ReadTable("sheet-1", "Availability")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Monday Availability"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "", table.Value(table.Rows[1], "Monday Availability"))
	assert.Contains(t, api.calls, "GET sheet-1/values/Availability")
}

func TestReadTable_EmptyTab(t *testing.T) {
	client := newTestClient(t, &fakeSheetsAPI{})

	_, err := client.ReadTable("sheet-1", "Shifts")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestPublishSchedule_NewTab(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Other"}}
	client := newTestClient(t, api)

	records := []model.AssignmentRecord{
		{Date: "2024-01-01", Weekday: "Monday", ShiftType: "Midday", StartTime: "11:00 AM", EndTime: "3:00 PM", EmployeeName: "A", Hours: 4},
	}
	require.NoError(t, client.PublishSchedule("sheet-1", "Schedule", records))

	assert.Contains(t, api.calls, "POST sheet-1:batchUpdate")
	require.Len(t, api.written, 2)
	assert.Equal(t, "Employee Name", api.written[0][5])
	assert.Equal(t, "A", api.written[1][5])
	assert.Equal(t, 4.0, api.written[1][6])
}

func TestPublishSchedule_ExistingTabIsCleared(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Schedule"}}
	client := newTestClient(t, api)

	require.NoError(t, client.PublishSchedule("sheet-1", "Schedule", nil))

	assert.Contains(t, api.calls, "POST sheet-1/values/Schedule:clear")
	assert.NotContains(t, api.calls, "POST sheet-1:batchUpdate")
	assert.Len(t, api.written, 1, "header only")
}

func TestClient_SatisfiesSheetsSQL(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"run", "assignment"}}
	client := newTestClient(t, api)

	titles, err := client.SheetTitles("db")
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "assignment"}, titles)

	require.NoError(t, client.AppendRows("db", "run", [][]interface{}{{"id-1", "2024-01-01T00:00:00Z"}}))
	assert.Equal(t, [][]interface{}{{"id-1", "2024-01-01T00:00:00Z"}}, api.appended)
}

func TestScheduleRows(t *testing.T) {
	rows := scheduleRows([]model.AssignmentRecord{
		{Date: "d", Weekday: "w", ShiftType: "t", StartTime: "s", EndTime: "e", EmployeeName: "n", Hours: 2.5},
	})

	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(model.RecordColumns))
	assert.Equal(t, []interface{}{"d", "w", "t", "s", "e", "n", 2.5}, rows[1])
}
