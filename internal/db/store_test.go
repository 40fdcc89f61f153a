package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharv3903/campusnav/internal/model"
)

var campus = model.Region{North: 30.7735, South: 30.7650, East: 76.5810, West: 76.5735}

func newMock(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return Store{DB: conn}, mock
}

func TestNodes_Region(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(nodesInRegion)).
		WithArgs(campus.South, campus.North, campus.West, campus.East).
		WillReturnRows(sqlmock.NewRows([]string{"node_id", "lat", "lon"}).
			AddRow(1, 30.771879, 76.579789).
			AddRow(2, 30.771617, 76.578250))

	nodes, err := s.Nodes(context.Background(), campus)
	require.NoError(t, err)
	assert.Equal(t, []model.Node{
		{ID: 1, Lat: 30.771879, Lon: 76.579789},
		{ID: 2, Lat: 30.771617, Lon: 76.578250},
	}, nodes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNodes_NoRegion(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(nodesAll)).
		WillReturnRows(sqlmock.NewRows([]string{"node_id", "lat", "lon"}))

	nodes, err := s.Nodes(context.Background(), model.Region{})
	require.NoError(t, err)
	assert.Empty(t, nodes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEdges_SkipsClosed(t *testing.T) {
	s, mock := newMock(t)

	args := regionArgs(campus)
	mock.ExpectQuery(regexp.QuoteMeta(edgesInRegion)).
		WithArgs(args[0], args[1], args[2], args[3], args[0], args[1], args[2], args[3]).
		WillReturnRows(sqlmock.NewRows([]string{"src_node", "dst_node", "distance_m", "closed"}).
			AddRow(1, 2, 147.5, false).
			AddRow(2, 3, 99.0, true).
			AddRow(2, 4, 187.25, false))

	edges, err := s.Edges(context.Background(), campus)
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{
		{Src: 1, Dst: 2, DistM: 147.5},
		{Src: 2, Dst: 4, DistM: 187.25},
	}, edges)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEdges_QueryError(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(edgesAll)).WillReturnError(boom)

	_, err := s.Edges(context.Background(), model.Region{})
	assert.ErrorIs(t, err, boom)
}

func TestSaveGraph_Replace(t *testing.T) {
	s, mock := newMock(t)

	nodes := []model.Node{{ID: 1, Lat: 30.1, Lon: 76.1}, {ID: 2, Lat: 30.2, Lon: 76.2}}
	edges := []model.Edge{{Src: 1, Dst: 2, DistM: 12.5}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM edges`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM nodes`)).WillReturnResult(sqlmock.NewResult(0, 4))
	np := mock.ExpectPrepare(`INSERT INTO nodes`)
	np.ExpectExec().WithArgs(int64(1), 30.1, 76.1).WillReturnResult(sqlmock.NewResult(1, 1))
	np.ExpectExec().WithArgs(int64(2), 30.2, 76.2).WillReturnResult(sqlmock.NewResult(2, 1))
	ep := mock.ExpectPrepare(`INSERT INTO edges`)
	ep.ExpectExec().WithArgs(int64(1), int64(2), 12.5).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveGraph(context.Background(), nodes, edges, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveGraph_RollbackOnError(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("duplicate entry")

	mock.ExpectBegin()
	np := mock.ExpectPrepare(`INSERT INTO nodes`)
	np.ExpectExec().WithArgs(int64(1), 30.1, 76.1).WillReturnError(boom)
	mock.ExpectRollback()

	err := s.SaveGraph(context.Background(), []model.Node{{ID: 1, Lat: 30.1, Lon: 76.1}}, nil, false)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchema(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS nodes`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS edges`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.CreateSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEdgeClosed(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE edges SET closed=? WHERE edge_id=?`)).
		WithArgs(true, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdateEdgeClosed(context.Background(), 42, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn")
	assert.Error(t, err)
}
