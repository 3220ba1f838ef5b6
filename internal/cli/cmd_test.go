package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studytime/internal/behavior"
	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/alexanderramin/studytime/internal/repository"
	"github.com/alexanderramin/studytime/internal/service"
	"github.com/alexanderramin/studytime/internal/studytime"
	"github.com/alexanderramin/studytime/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliDay = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	records := repository.NewSQLiteStudyTimeRepo(database)
	limits := repository.NewSQLiteDailyLimitRepo(database, studytime.DefaultDailyLimitSeconds)

	return &App{
		StudyTime: service.NewStudyTimeService(studytime.DefaultPolicy(), service.StudyTimeDeps{
			Records:  records,
			Limits:   limits,
			UoW:      testutil.NewTestUoW(database),
			Signals:  behavior.NewDefaultExtractor(),
			Location: time.UTC,
		}),
		Limits:   service.NewLimitService(limits),
		Location: time.UTC,
		Now:      func() time.Time { return cliDay.Add(20 * time.Hour) },
	}
}

// executeCmd runs a cobra command with stdin and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--plain"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func requestJSON(t *testing.T, userID, sessionID string, minutes int) string {
	t.Helper()
	start := cliDay.Add(9 * time.Hour)
	req := contract.StudyTimeRequest{
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Behavior:  testutil.FocusedEvents(minutes),
	}
	req.UserID = userID
	req.SessionID = sessionID
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

func onlyRecord(t *testing.T, app *App, userID string) *domain.StudyTimeRecord {
	t.Helper()
	recs, err := app.StudyTime.ListRecords(context.Background(), userID, cliDay)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	return recs[0]
}

func TestProcessCmd_FromStdin(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, requestJSON(t, "u-1", "s-1", 60), "process")
	require.NoError(t, err)

	assert.Contains(t, out, "STUDY TIME")
	assert.Contains(t, out, "● Valid")
	assert.Contains(t, out, "1h")
	assert.Contains(t, out, "2025-03-15")

	rec := onlyRecord(t, app, "u-1")
	assert.Equal(t, 3600.0, rec.EffectiveDuration)
}

func TestProcessCmd_FromFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(requestJSON(t, "u-1", "s-1", 30)), 0o644))

	out, err := executeCmd(t, app, "", "process", path)
	require.NoError(t, err)
	assert.Contains(t, out, "30m")
}

func TestProcessCmd_RejectsMultipleRequests(t *testing.T) {
	app := testApp(t)
	input := "[" + requestJSON(t, "u-1", "s-1", 10) + "," + requestJSON(t, "u-1", "s-2", 10) + "]"

	_, err := executeCmd(t, app, input, "process")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use batch")
}

func TestProcessCmd_MalformedInput(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "{not json", "process")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(contract.RequestErrMalformed))
}

func TestBatchCmd_ReportsPerItem(t *testing.T) {
	app := testApp(t)
	input := "[" + requestJSON(t, "u-1", "s-1", 10) + "," + requestJSON(t, "", "s-2", 10) + "]"

	out, err := executeCmd(t, app, input, "batch")
	require.Error(t, err, "a failed item fails the command")
	assert.Contains(t, err.Error(), "1 of 2 requests failed")

	assert.Contains(t, out, "s-1")
	assert.Contains(t, out, "s-2")
	assert.Contains(t, out, "✖ Error")
	assert.Contains(t, out, "1 processed, 1 failed")
	onlyRecord(t, app, "u-1")
}

func TestRecordsCmds(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, requestJSON(t, "u-1", "s-1", 20), "process")
	require.NoError(t, err)
	rec := onlyRecord(t, app, "u-1")

	out, err := executeCmd(t, app, "", "records", "list", "--user", "u-1", "--date", "2025-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, rec.ID[:8])
	assert.Contains(t, out, "20m")

	out, err = executeCmd(t, app, "", "records", "list", "--user", "u-1")
	require.NoError(t, err, "today resolves to the app clock")
	assert.Contains(t, out, rec.ID[:8])

	out, err = executeCmd(t, app, "", "records", "list", "--user", "u-1", "--date", "yesterday")
	require.NoError(t, err)
	assert.Contains(t, out, "No records found.")

	out, err = executeCmd(t, app, "", "records", "show", rec.ID)
	require.NoError(t, err)
	assert.Contains(t, out, rec.SessionID)

	out, err = executeCmd(t, app, "", "records", "transition", rec.ID, "reviewing", "--note", "spot check")
	require.NoError(t, err)
	assert.Contains(t, out, "Under review")

	got, err := app.StudyTime.GetRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewing, got.Status)
	assert.Contains(t, got.Description, "spot check")
}

func TestRecordsCmds_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "", "records", "list")
	assert.EqualError(t, err, "--user is required")

	_, err = executeCmd(t, app, "", "records", "list", "--user", "u-1", "--date", "15/03/2025")
	assert.ErrorContains(t, err, "invalid date")

	_, err = executeCmd(t, app, "", "records", "transition", "some-id", "done")
	assert.ErrorContains(t, err, "unknown status")

	_, err = executeCmd(t, app, "", "records", "show", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecordsReviewCmd(t *testing.T) {
	app := testApp(t)
	// No behavior events score zero on every ratio and need review.
	start := cliDay.Add(9 * time.Hour)
	req := contract.StudyTimeRequest{StartTime: start, EndTime: start.Add(10 * time.Minute)}
	req.UserID, req.SessionID = "u-1", "s-low"
	data, err := json.Marshal(req)
	require.NoError(t, err)

	_, err = executeCmd(t, app, string(data), "process")
	require.NoError(t, err)
	_, err = executeCmd(t, app, requestJSON(t, "u-1", "s-good", 10), "process")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "", "records", "review", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "u-1"))
}

func TestDailyCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, requestJSON(t, "u-1", "s-1", 90), "process")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "", "daily", "--user", "u-1", "--date", "2025-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, "DAILY STUDY TIME")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "6h 30m")
	assert.Contains(t, out, "1 records, 1 counted")

	_, err = executeCmd(t, app, "", "daily")
	assert.Error(t, err)
}

func TestLimitCmds(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "", "limit", "get", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1  8h (28800s, default)\n", out)

	out, err = executeCmd(t, app, "", "limit", "set", "u-1", "7200")
	require.NoError(t, err)
	assert.Equal(t, "u-1  2h (7200s, override)\n", out)

	out, err = executeCmd(t, app, "", "limit", "get", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1  2h (7200s, override)\n", out)

	_, err = executeCmd(t, app, "", "limit", "set", "u-1", "lots")
	assert.ErrorContains(t, err, "invalid seconds")

	_, err = executeCmd(t, app, "", "limit", "set", "u-1", "-5")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestResolveDate(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2025, 3, 15, 20, 0, 0, 0, time.UTC) // 04:00 on the 16th in UTC+8

	d, err := resolveDate("today", loc, now)
	require.NoError(t, err)
	assert.Equal(t, 16, d.Day())

	d, err = resolveDate("", loc, now)
	require.NoError(t, err)
	assert.Equal(t, 16, d.Day())

	d, err = resolveDate("Yesterday", loc, now)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	d, err = resolveDate("2025-01-02", loc, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, loc), d)

	_, err = resolveDate("tomorrow", loc, now)
	assert.Error(t, err)
}
