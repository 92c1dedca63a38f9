package warehouse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records statements and keeps loaded rows in memory.
type fakeConn struct {
	execs    []string
	tables   map[string][][]any
	failLoad map[string]error
	failExec string
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		tables:   make(map[string][][]any),
		failLoad: make(map[string]error),
	}
}

func (c *fakeConn) Dialect() *Dialect { return SQLite }

func (c *fakeConn) Exec(_ context.Context, query string, _ ...any) error {
	if c.failExec != "" && strings.Contains(query, c.failExec) {
		return errors.New("exec failed")
	}
	c.execs = append(c.execs, query)
	return nil
}

func (c *fakeConn) Load(_ context.Context, t *Table, rows [][]any, _ int, progress func(int64)) (int64, error) {
	if err := c.failLoad[t.Name]; err != nil {
		return 0, err
	}
	c.tables[t.Name] = append(c.tables[t.Name], rows...)
	if progress != nil {
		progress(int64(len(rows)))
	}
	return int64(len(rows)), nil
}

func (c *fakeConn) QueryInt(_ context.Context, query string) (int64, error) {
	for name, rows := range c.tables {
		if strings.HasSuffix(query, " "+name) {
			return int64(len(rows)), nil
		}
	}
	return 0, nil
}

func (c *fakeConn) QueryPairs(context.Context, string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, row := range c.tables[Metadata.Name] {
		pairs[row[0].(string)] = row[1].(string)
	}
	return pairs, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeTarget struct {
	conn       *fakeConn
	prepareErr error
	connectErr error
	opts       Options
}

func (t *fakeTarget) Name() string        { return "fake" }
func (t *fakeTarget) Description() string { return "in-memory test target" }
func (t *fakeTarget) Prepare(string) error {
	return t.prepareErr
}

func (t *fakeTarget) Connect(_ context.Context, _ string, opts Options) (Conn, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	t.opts = opts
	return t.conn, nil
}

func writePrepared(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"cleaned_customers.csv": "customerid,name,region,joindate,birthdate,gender,age,age_group\n" +
			"1001,Ada,East,2021-01-15,2000-06-15,F,23,18-25\n" +
			"1002,Bob,North,2021-03-01,,M,,Unknown\n",
		"cleaned_products.csv": "productid,productname,category,unitprice\n" +
			"101,Laptop,Electronics,793.12\n" +
			"102,Hoodie,Clothing,39.10\n" +
			"103,Cable,Electronics,5.00\n",
		"cleaned_sales.csv": "transactionid,saledate,customerid,productid,storeid,campaignid,saleamount,sale_year,sale_month,sale_month_name,sale_quarter\n" +
			"550,2023-11-05,1001,101,401,0,793.12,2023,11,November,2023Q4\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestBuilderBuild(t *testing.T) {
	dir := t.TempDir()
	writePrepared(t, dir)
	target := &fakeTarget{conn: newFakeConn()}

	b := NewBuilder(target, BuildOptions{PreparedDir: dir, EnforceForeignKeys: true})
	assert.Equal(t, StateNotStarted, b.State())

	report, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, b.State())
	assert.Equal(t, StateDone, report.FinalState)
	assert.Equal(t, b.RunID(), report.RunID)
	assert.True(t, target.opts.EnforceForeignKeys)
	assert.True(t, target.conn.closed)

	conn := target.conn
	assert.Len(t, conn.tables[DimCustomers.Name], 2)
	assert.Len(t, conn.tables[DimProducts.Name], 3)
	assert.Len(t, conn.tables[FactSales.Name], 1)

	// Drops run fact-first, creates dimension-first, indexes last.
	assert.Equal(t, "DROP TABLE IF EXISTS warehouse_metadata", conn.execs[0])
	assert.Equal(t, "DROP TABLE IF EXISTS fact_sales", conn.execs[1])
	assert.True(t, strings.HasPrefix(conn.execs[4], "CREATE TABLE dim_customers"))
	assert.True(t, strings.HasPrefix(conn.execs[6], "CREATE TABLE fact_sales"))
	assert.Equal(t, "CREATE INDEX idx_product_id ON fact_sales (productid)", conn.execs[len(conn.execs)-1])

	meta, err := GetAllMetadata(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "fake", meta[MetaTarget])
	assert.Equal(t, report.RunID, meta[MetaRunID])
	assert.Equal(t, "2", meta[RowsKey(DimCustomers.Name)])
	assert.Equal(t, "1", meta[RowsKey(FactSales.Name)])
	assert.NotEmpty(t, meta[MetaVersion])
	assert.NotEmpty(t, meta["build.commit"])
	assert.NotEmpty(t, meta["build.go_version"])

	names := make([]string, len(report.Steps))
	for i, s := range report.Steps {
		names[i] = s.Name
		assert.Equal(t, StatusOK, s.Status, s.Name)
	}
	assert.Equal(t, []string{
		StepPrepareTarget, StepConnect, StepCreateTables, StepLoadDimensions,
		StepLoadFacts, StepCreateIndexes, StepRecordMetadata,
	}, names)
	assert.Len(t, report.Tables(), 3)
}

func TestBuilderContinuesAfterFailedStep(t *testing.T) {
	dir := t.TempDir()
	writePrepared(t, dir)
	conn := newFakeConn()
	conn.failLoad[DimProducts.Name] = errors.New("disk full")
	target := &fakeTarget{conn: conn}

	report, err := NewBuilder(target, BuildOptions{PreparedDir: dir}).Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load_dimensions")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StateDone, report.FinalState)

	dims, _ := report.Step(StepLoadDimensions)
	assert.Equal(t, StatusFailed, dims.Status)
	require.Len(t, dims.Tables, 2)
	assert.Equal(t, int64(2), dims.Tables[0].Loaded)
	assert.Equal(t, int64(0), dims.Tables[1].Loaded)

	facts, _ := report.Step(StepLoadFacts)
	assert.Equal(t, StatusOK, facts.Status)
	assert.Len(t, conn.tables[FactSales.Name], 1)

	indexes, _ := report.Step(StepCreateIndexes)
	assert.Equal(t, StatusOK, indexes.Status)
	assert.Len(t, report.Failed(), 1)
}

func TestBuilderMissingPreparedFile(t *testing.T) {
	dir := t.TempDir()
	writePrepared(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "cleaned_sales.csv")))
	target := &fakeTarget{conn: newFakeConn()}

	report, err := NewBuilder(target, BuildOptions{PreparedDir: dir}).Build(context.Background())

	require.Error(t, err)
	facts, _ := report.Step(StepLoadFacts)
	assert.Equal(t, StatusFailed, facts.Status)
	meta, _ := report.Step(StepRecordMetadata)
	assert.Equal(t, StatusOK, meta.Status)
}

func TestBuilderMissingKeyColumn(t *testing.T) {
	dir := t.TempDir()
	writePrepared(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cleaned_customers.csv"), []byte("name,region\nAda,East\nBob,West\n"), 0o644))
	target := &fakeTarget{conn: newFakeConn()}

	report, err := NewBuilder(target, BuildOptions{PreparedDir: dir}).Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "customerid key column")

	dims, _ := report.Step(StepLoadDimensions)
	assert.Equal(t, StatusFailed, dims.Status)
	require.Len(t, dims.Tables, 2)
	assert.Equal(t, int64(2), dims.Tables[0].Rejected)
	assert.Equal(t, int64(0), dims.Tables[0].Loaded)
	assert.Empty(t, target.conn.tables[DimCustomers.Name])
	assert.Len(t, target.conn.tables[DimProducts.Name], 3)
}

func TestBuilderIndexFailure(t *testing.T) {
	dir := t.TempDir()
	writePrepared(t, dir)
	conn := newFakeConn()
	conn.failExec = "idx_customer_id"
	target := &fakeTarget{conn: conn}

	report, err := NewBuilder(target, BuildOptions{PreparedDir: dir}).Build(context.Background())

	require.Error(t, err)
	step, _ := report.Step(StepCreateIndexes)
	assert.Equal(t, StatusFailed, step.Status)
	// The second index is still attempted.
	assert.Equal(t, "CREATE INDEX idx_product_id ON fact_sales (productid)", conn.execs[len(conn.execs)-1])
}

func TestBuilderConnectFailureIsFatal(t *testing.T) {
	target := &fakeTarget{conn: newFakeConn(), connectErr: errors.New("connection refused")}

	b := NewBuilder(target, BuildOptions{PreparedDir: t.TempDir()})
	report, err := b.Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, StateNotStarted, report.FinalState)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, StatusFailed, report.Steps[1].Status)
	assert.Empty(t, target.conn.execs)
}

func TestBuilderPrepareFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	writePrepared(t, dir)
	target := &fakeTarget{conn: newFakeConn(), prepareErr: errors.New("permission denied")}

	report, err := NewBuilder(target, BuildOptions{PreparedDir: dir}).Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusWarning, report.Steps[0].Status)
	assert.Equal(t, StateDone, report.FinalState)
}

func TestCountRows(t *testing.T) {
	conn := newFakeConn()
	conn.tables[DimCustomers.Name] = make([][]any, 4)
	conn.tables[FactSales.Name] = make([][]any, 9)

	counts, err := CountRows(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		DimCustomers.Name: 4,
		DimProducts.Name:  0,
		FactSales.Name:    9,
	}, counts)
}
