package tracing

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/structs"
	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/sarchlab/carousel/timing"
)

type taskRow struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime uint64
	EndTime   uint64
}

type stepRow struct {
	TaskID string
	Time   uint64
	What   string
}

// SQLiteTraceWriter is a writer that writes trace data to a SQLite database.
type SQLiteTraceWriter struct {
	*sql.DB

	dbName    string
	tasks     []Task
	batchSize int
}

// NewSQLiteTraceWriter creates a new SQLiteTraceWriter. The database is
// created at path + ".sqlite3"; an empty path picks a unique name.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	if path == "" {
		path = "carousel_trace_" + xid.New().String()
	}

	return &SQLiteTraceWriter{
		dbName:    path + ".sqlite3",
		batchSize: 10000,
	}
}

// Path returns the file name of the database.
func (t *SQLiteTraceWriter) Path() string {
	return t.dbName
}

// Init creates the database and its tables. It fails if the file exists.
func (t *SQLiteTraceWriter) Init() error {
	if _, err := os.Stat(t.dbName); err == nil {
		return fmt.Errorf("trace file %s already exists", t.dbName)
	}

	db, err := sql.Open("sqlite3", t.dbName)
	if err != nil {
		return fmt.Errorf("opening %s: %w", t.dbName, err)
	}

	t.DB = db

	for name, sample := range map[string]any{
		"trace":      taskRow{},
		"trace_step": stepRow{},
	} {
		createTableSQL := `CREATE TABLE ` + name + ` (` + "\n\t" +
			strings.Join(structs.Names(sample), ", \n\t") + "\n" + `);`
		if _, err := t.Exec(createTableSQL); err != nil {
			return fmt.Errorf("creating table %s: %w", name, err)
		}
	}

	for _, index := range []string{
		`CREATE INDEX trace_id ON trace (ID)`,
		`CREATE INDEX trace_location ON trace (Location)`,
		`CREATE INDEX trace_step_task ON trace_step (TaskID)`,
	} {
		if _, err := t.Exec(index); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return nil
}

// Write writes a task to the database.
func (t *SQLiteTraceWriter) Write(task Task) error {
	t.tasks = append(t.tasks, task)
	if len(t.tasks) >= t.batchSize {
		return t.Flush()
	}

	return nil
}

// Flush writes all the buffered tasks to the database in one transaction.
func (t *SQLiteTraceWriter) Flush() error {
	if len(t.tasks) == 0 || t.DB == nil {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	if err := t.insert(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	t.tasks = nil

	return tx.Commit()
}

func (t *SQLiteTraceWriter) insert(tx *sql.Tx) error {
	taskStmt, err := tx.Prepare(insertStatement("trace", taskRow{}))
	if err != nil {
		return err
	}
	defer taskStmt.Close()

	stepStmt, err := tx.Prepare(insertStatement("trace_step", stepRow{}))
	if err != nil {
		return err
	}
	defer stepStmt.Close()

	for _, task := range t.tasks {
		row := taskRow{
			ID:        task.ID,
			ParentID:  task.ParentID,
			Kind:      task.Kind,
			What:      task.What,
			Location:  task.Where,
			StartTime: uint64(task.StartTime),
			EndTime:   uint64(task.EndTime),
		}
		if _, err := taskStmt.Exec(structs.Values(row)...); err != nil {
			return fmt.Errorf("inserting task %s: %w", task.ID, err)
		}

		for _, step := range task.Steps {
			row := stepRow{TaskID: task.ID, Time: uint64(step.Time), What: step.What}
			if _, err := stepStmt.Exec(structs.Values(row)...); err != nil {
				return fmt.Errorf("inserting step of %s: %w", task.ID, err)
			}
		}
	}

	return nil
}

func insertStatement(table string, sample any) string {
	n := structs.Names(sample)
	for i := range n {
		n[i] = "?"
	}

	return "INSERT INTO " + table + " VALUES (" + strings.Join(n, ", ") + ")"
}

// Close flushes the buffered tasks and closes the database.
func (t *SQLiteTraceWriter) Close() error {
	if t.DB == nil {
		return nil
	}

	err := t.Flush()
	if closeErr := t.DB.Close(); err == nil {
		err = closeErr
	}

	t.DB = nil

	return err
}

// TaskQuery is used to define the tasks to be queried. Not all the field has to
// be set. If the fields are empty, the criteria is ignored.
type TaskQuery struct {
	// Use ID to select a single task by its ID.
	ID string

	// Use What to select the transitions of one action.
	What string

	// Use Where to select all the tasks of one carousel.
	Where string

	// Enable time range selection.
	EnableTimeRange bool

	// Use StartTime to select tasks that overlaps with the given task range.
	StartTime, EndTime timing.VTimeInMs

	// WithSteps also loads the steps of the selected tasks.
	WithSteps bool
}

// SQLiteTraceReader reads traces written by SQLiteTraceWriter.
type SQLiteTraceReader struct {
	*sql.DB
}

// NewSQLiteTraceReader opens a trace database.
func NewSQLiteTraceReader(filename string) (*SQLiteTraceReader, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	return &SQLiteTraceReader{DB: db}, nil
}

// ListLocations returns the names of the carousels in the trace.
func (r *SQLiteTraceReader) ListLocations() ([]string, error) {
	rows, err := r.Query(`SELECT DISTINCT Location FROM trace ORDER BY Location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}

		locations = append(locations, l)
	}

	return locations, rows.Err()
}

// ListTasks returns the tasks that match query, ordered by start time.
func (r *SQLiteTraceReader) ListTasks(query TaskQuery) ([]Task, error) {
	sqlStr, args := prepareTaskQuery(query)

	rows, err := r.Query(sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var (
			t          Task
			start, end uint64
		)

		err := rows.Scan(&t.ID, &t.ParentID, &t.Kind, &t.What, &t.Where,
			&start, &end)
		if err != nil {
			return nil, err
		}

		t.StartTime = timing.VTimeInMs(start)
		t.EndTime = timing.VTimeInMs(end)
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if query.WithSteps {
		for i := range tasks {
			if tasks[i].Steps, err = r.listSteps(tasks[i].ID); err != nil {
				return nil, err
			}
		}
	}

	return tasks, nil
}

func prepareTaskQuery(query TaskQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if query.ID != "" {
		conds = append(conds, "ID = ?")
		args = append(args, query.ID)
	}

	if query.What != "" {
		conds = append(conds, "What = ?")
		args = append(args, query.What)
	}

	if query.Where != "" {
		conds = append(conds, "Location = ?")
		args = append(args, query.Where)
	}

	if query.EnableTimeRange {
		conds = append(conds, "EndTime >= ?", "StartTime <= ?")
		args = append(args, uint64(query.StartTime), uint64(query.EndTime))
	}

	sqlStr := `SELECT ID, ParentID, Kind, What, Location, StartTime, EndTime
		FROM trace`
	if len(conds) > 0 {
		sqlStr += " WHERE " + strings.Join(conds, " AND ")
	}

	return sqlStr + " ORDER BY StartTime, ID", args
}

func (r *SQLiteTraceReader) listSteps(taskID string) ([]TaskStep, error) {
	rows, err := r.Query(
		`SELECT Time, What FROM trace_step WHERE TaskID = ? ORDER BY Time, rowid`,
		taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []TaskStep
	for rows.Next() {
		var (
			at   uint64
			what string
		)

		if err := rows.Scan(&at, &what); err != nil {
			return nil, err
		}

		steps = append(steps, TaskStep{Time: timing.VTimeInMs(at), What: what})
	}

	return steps, rows.Err()
}
